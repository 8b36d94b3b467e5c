package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dnrdl12/remit/internal/adapter/http/dto"
	"github.com/dnrdl12/remit/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransferNotFound),
		errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrFeePolicyNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrIdempotencyConflict),
		errors.Is(err, domain.ErrMemberAlreadyExists),
		errors.Is(err, domain.ErrAccountAlreadyClosed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAccountSuspended),
		errors.Is(err, domain.ErrAccountClosed),
		errors.Is(err, domain.ErrMemberDeleted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidAccountStatus),
		errors.Is(err, domain.ErrInvalidAccountType),
		errors.Is(err, domain.ErrFeePolicyRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// clientIdentity extracts the caller identity and idempotency key from
// headers. Both are required for money movement.
func clientIdentity(r *http.Request) (clientID, idempotencyKey string) {
	return r.Header.Get("X-Client-Id"), r.Header.Get("Idempotency-Key")
}
