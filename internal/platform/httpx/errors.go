package httpx

import (
	"errors"
	"net/http"

	"github.com/orderdesk/orderdesk/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	var insufficient *shared.InsufficientStockError
	var domain *shared.Error

	switch {
	case errors.As(err, &insufficient):
		Problem(w, http.StatusConflict, "Insufficient Stock", insufficient.Error())
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrIdempotencyConflict):
		Problem(w, http.StatusConflict, "Duplicate Request", "request with this idempotency key was already processed")
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", shared.UserSafeMessage(err))
	case errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", shared.UserSafeMessage(err))
	case errors.As(err, &domain):
		Problem(w, http.StatusUnprocessableEntity, "Request Rejected", domain.Message)
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
