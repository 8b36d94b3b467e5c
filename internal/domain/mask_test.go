package domain_test

import (
	"testing"

	"github.com/dnrdl12/remit/internal/domain"
)

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01012345678", "010****5678"},
		{"0212345678", "021****5678"},
		{"1234567", "****"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := domain.MaskPhone(tt.in); got != tt.want {
			t.Errorf("MaskPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaskIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CI0123456789ABCDEF", "CI01********CDEF"},
		{"12345678", "****"},
		{"short", "****"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := domain.MaskIdentifier(tt.in); got != tt.want {
			t.Errorf("MaskIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
