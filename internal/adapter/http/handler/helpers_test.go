package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dnrdl12/remit/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrAccountNotFound, http.StatusNotFound},
		{domain.ErrTransferNotFound, http.StatusNotFound},
		{domain.ErrMemberNotFound, http.StatusNotFound},
		{domain.ErrFeePolicyNotFound, http.StatusNotFound},
		{domain.ErrIdempotencyConflict, http.StatusConflict},
		{domain.ErrMemberAlreadyExists, http.StatusConflict},
		{domain.ErrAccountAlreadyClosed, http.StatusConflict},
		{domain.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{domain.ErrAccountSuspended, http.StatusUnprocessableEntity},
		{domain.ErrAccountClosed, http.StatusUnprocessableEntity},
		{domain.ErrMemberDeleted, http.StatusUnprocessableEntity},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrSameAccount, http.StatusBadRequest},
		{domain.ErrFeePolicyRequired, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := mapDomainError(tt.err); got != tt.want {
			t.Errorf("mapDomainError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=50&bad=oops", nil)

	if got := parseIntQuery(req, "limit", 20); got != 50 {
		t.Errorf("expected 50, got %d", got)
	}
	if got := parseIntQuery(req, "missing", 20); got != 20 {
		t.Errorf("expected default 20, got %d", got)
	}
	if got := parseIntQuery(req, "bad", 20); got != 20 {
		t.Errorf("expected default for unparsable value, got %d", got)
	}
}

func TestClientIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Client-Id", "client-a")
	req.Header.Set("Idempotency-Key", "key-1")

	clientID, key := clientIdentity(req)
	if clientID != "client-a" || key != "key-1" {
		t.Errorf("got %q/%q", clientID, key)
	}
}
