package shared

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across modules.
var (
	// ErrNotFound indicates the target row does not exist or is soft-deleted.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates a malformed or rejected request payload.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error carries the stable code and user-safe message reported by a stored
// routine. Code 0 means success and never reaches callers; repositories
// translate it to a nil error.
type Error struct {
	Code    int32
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// RoutineError translates a stored routine's (error_code, message) pair into
// a Go error.
func RoutineError(code int32, message string) error {
	if code == 0 {
		return nil
	}
	return &Error{Code: code, Message: message}
}

// InsufficientStockError rejects an order line that asks for more units than
// the locked stock row holds.
type InsufficientStockError struct {
	ItemID    int64
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: requested %d, available %d", e.ItemID, e.Requested, e.Available)
}

// UserSafeMessage returns a message that can be shown to API clients without
// leaking internals. Domain errors pass through; everything else collapses to
// a generic message.
func UserSafeMessage(err error) string {
	var insufficient *InsufficientStockError
	if errors.As(err, &insufficient) {
		return insufficient.Error()
	}
	var domain *Error
	if errors.As(err, &domain) {
		return domain.Message
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrDuplicate):
		return "duplicate entry"
	case errors.Is(err, ErrValidation):
		return "validation failed"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid credentials"
	}
	return "an unexpected error occurred"
}
