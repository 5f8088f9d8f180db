package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/internal/shared"
)

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantTitle  string
	}{
		{"insufficient stock", &shared.InsufficientStockError{ItemID: 7, Requested: 5, Available: 2}, http.StatusConflict, "Insufficient Stock"},
		{"not found", shared.ErrNotFound, http.StatusNotFound, "Not Found"},
		{"duplicate", shared.ErrDuplicate, http.StatusConflict, "Duplicate"},
		{"idempotency replay", shared.ErrIdempotencyConflict, http.StatusConflict, "Duplicate Request"},
		{"validation", shared.ErrValidation, http.StatusBadRequest, "Validation Failed"},
		{"bad credentials", shared.ErrInvalidCredentials, http.StatusUnauthorized, "Unauthorized"},
		{"routine error", &shared.Error{Code: 1002, Message: "stock row missing"}, http.StatusUnprocessableEntity, "Request Rejected"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Internal Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondError(rr, tc.err)

			assert.Equal(t, tc.wantStatus, rr.Code)

			var problem ProblemDetail
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
			assert.Equal(t, tc.wantTitle, problem.Title)
			assert.Equal(t, tc.wantStatus, problem.Status)
		})
	}
}

func TestRespondErrorWrappedInsufficientStock(t *testing.T) {
	wrapped := errors.Join(errors.New("placement failed"), &shared.InsufficientStockError{ItemID: 3, Requested: 9, Available: 1})

	rr := httptest.NewRecorder()
	RespondError(rr, wrapped)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "insufficient stock for item 3")
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "10.0.0.5")
}
