package orders

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/orderdesk/orderdesk/internal/platform/httpx"
	"github.com/orderdesk/orderdesk/internal/shared"
)

// Handler wires the order and order-item HTTP endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the order handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/place", h.place)
	r.Get("/{orderID}", h.get)
	r.Put("/{orderID}", h.update)
	r.Delete("/{orderID}", h.delete)
	r.Delete("/{orderID}/with-items", h.deleteWithItems)
}

// MountItemRoutes registers order-line routes, mounted separately so the
// line endpoints live under their own prefix.
func (h *Handler) MountItemRoutes(r chi.Router) {
	r.Post("/", h.addItem)
	r.Put("/{orderItemID}", h.updateItem)
	r.Delete("/{orderItemID}", h.deleteItem)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetAll(r.Context())
	if err != nil {
		h.logger.Error("list orders failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "orders retrieved successfully", result)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(r, "orderID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	order, err := h.service.Get(r.Context(), orderID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "order retrieved successfully", order)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	req.CreatedBy = shared.IdentityFromContext(r.Context()).Username
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "order created successfully", created)
}

// place handles the order-with-items placement. Clients may pass an
// Idempotency-Key header to make retries safe.
func (h *Handler) place(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	req.CreatedBy = shared.IdentityFromContext(r.Context()).Username
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	placed, err := h.service.PlaceWithItems(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "order placed successfully", placed)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(r, "orderID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	var req UpdateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	req.ID = orderID
	req.UpdatedBy = shared.IdentityFromContext(r.Context()).Username
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.Update(r.Context(), req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "order updated successfully", map[string]int64{"order_id": orderID})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(r, "orderID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	if err := h.service.Delete(r.Context(), orderID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "order deleted successfully", nil)
}

func (h *Handler) deleteWithItems(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseID(r, "orderID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order id")
		return
	}
	if err := h.service.DeleteWithItems(r.Context(), orderID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "order and items deleted successfully", nil)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddOrderItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	orderItemID, err := h.service.AddItem(r.Context(), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "order item added successfully", map[string]int64{"order_item_id": orderItemID})
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	orderItemID, err := parseID(r, "orderItemID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order item id")
		return
	}
	var req UpdateOrderItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	req.ID = orderItemID
	req.UpdatedBy = shared.IdentityFromContext(r.Context()).Username
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.UpdateItem(r.Context(), req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "order item updated successfully", map[string]int64{"order_item_id": orderItemID})
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	orderItemID, err := parseID(r, "orderItemID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid order item id")
		return
	}
	if err := h.service.DeleteItem(r.Context(), orderItemID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "order item deleted successfully", nil)
}

func parseID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, param), 10, 64)
}
