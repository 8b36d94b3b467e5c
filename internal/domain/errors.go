package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountSuspended     = errors.New("account is suspended")
	ErrAccountClosed        = errors.New("account is closed")
	ErrAccountAlreadyClosed = errors.New("account is already closed")
	ErrInvalidAccountStatus = errors.New("invalid account status code")
	ErrInvalidAccountType   = errors.New("invalid account type code")

	// Transfer errors
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrSameAccount         = errors.New("from and to account are the same")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrIdempotencyConflict = errors.New("idempotency key reused with different parameters")
	ErrUnbalancedEntries   = errors.New("ledger entries do not sum to zero")
	ErrTransferNotFound    = errors.New("transfer not found")

	// Fee policy errors
	ErrFeePolicyNotFound = errors.New("fee policy not found")
	ErrFeePolicyRequired = errors.New("fee policy is required")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")

	// Member errors
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("member already registered")
	ErrMemberDeleted       = errors.New("member is already deleted")
	ErrInvalidMemberStatus = errors.New("invalid member status code")
)
