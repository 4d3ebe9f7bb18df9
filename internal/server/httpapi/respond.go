package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/goalkeeper/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps sentinel errors to HTTP status codes. Unknown errors are
// reported as a generic 500 so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, common.ErrorValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorUnauthenticated),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, common.ErrorForbidden):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, common.ErrorNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, common.ErrorAlreadyExists):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, common.ErrorInsufficientBudget),
		errors.Is(err, common.ErrorBudgetLimitReached):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	}

	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON reads a request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return common.ErrorValidation
	}
	return nil
}
