package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/v1/accounts/42", "/api/v1/accounts/:id"},
		{"/api/v1/accounts/42/balance", "/api/v1/accounts/:id/balance"},
		{"/api/v1/accounts/42/entries", "/api/v1/accounts/:id/entries"},
		{"/api/v1/transfers/01J5KQ9Z8XW", "/api/v1/transfers/:id"},
		{"/api/v1/transfers/01J5KQ9Z8XW/entries", "/api/v1/transfers/:id/entries"},
		{"/api/v1/members/7", "/api/v1/members/:id"},
		{"/api/v1/fee-policies/1", "/api/v1/fee-policies/:id"},
		{"/api/v1/accounts/", "/api/v1/accounts/"},
		{"/api/v1/transfers/deposit", "/api/v1/transfers/:id"},
		{"/health", "/health"},
		{"/api/v1/ledger/consistency", "/api/v1/ledger/consistency"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
