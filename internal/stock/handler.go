package stock

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/orderdesk/orderdesk/internal/platform/httpx"
)

// Handler wires the stock HTTP endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the stock handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers stock routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/items/{itemID}", h.quantity)
	r.Put("/{stockID}", h.update)
	r.Delete("/{stockID}", h.delete)
}

type updateStockRequest struct {
	Quantity int64 `json:"quantity" validate:"gte=0"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list stocks failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "stocks retrieved successfully", stocks)
}

func (h *Handler) quantity(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid item id")
		return
	}
	quantity, err := h.service.Quantity(r.Context(), itemID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "stock quantity retrieved", map[string]int64{"item_id": itemID, "quantity": quantity})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	stockID, err := strconv.ParseInt(chi.URLParam(r, "stockID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid stock id")
		return
	}
	var req updateStockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.SetQuantity(r.Context(), stockID, req.Quantity); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "stock quantity updated", map[string]int64{"stock_id": stockID, "quantity": req.Quantity})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	stockID, err := strconv.ParseInt(chi.URLParam(r, "stockID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid stock id")
		return
	}
	if err := h.service.Delete(r.Context(), stockID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "stock deleted", nil)
}
