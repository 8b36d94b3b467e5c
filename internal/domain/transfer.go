package domain

import "time"

// TransferStatus is the lifecycle state of a transfer.
type TransferStatus string

const (
	// TransferPending exists only inside the active unit of work.
	TransferPending TransferStatus = "PENDING"
	// TransferPosted is the terminal success state.
	TransferPosted TransferStatus = "POSTED"
	// TransferFailed is the terminal state for validation and balance failures.
	TransferFailed TransferStatus = "FAILED"
	// TransferCancelled is reserved for manual reversal flows. No current
	// operation produces it.
	TransferCancelled TransferStatus = "CANCELLED"
)

// FailCode explains why a transfer ended up FAILED.
type FailCode string

const (
	FailInsufficientBalance FailCode = "INSUFFICIENT_BALANCE"
	FailAccountStatus       FailCode = "ACCOUNT_STATUS_INVALID"
	FailLimitExceeded       FailCode = "LIMIT_EXCEEDED"
	FailSystemError         FailCode = "SYSTEM_ERROR"
)

// Transfer is one money movement: deposit, withdrawal, or account-to-account
// transfer. The pair (ClientID, IdempotencyKey) is unique: at most one row
// per logical client request. A transfer is never mutated after reaching a
// terminal state.
type Transfer struct {
	ID             string
	ClientID       string
	IdempotencyKey string
	FromAccountID  int64
	ToAccountID    int64
	Amount         int64
	Fee            int64
	Currency       string
	Status         TransferStatus
	FailCode       *FailCode
	Memo           string
	RequestedAt    time.Time
	PostedAt       *time.Time
}

// Terminal reports whether the transfer has reached a terminal state.
func (t *Transfer) Terminal() bool {
	switch t.Status {
	case TransferPosted, TransferFailed, TransferCancelled:
		return true
	default:
		return false
	}
}

// MatchesRequest checks a stored transfer against the parameters of a
// replayed request. Non-matching parameters mean the client reused an
// idempotency key for a different request, which is a hard stop.
func (t *Transfer) MatchesRequest(fromAccountID, toAccountID, amount int64) error {
	if fromAccountID != t.FromAccountID || toAccountID != t.ToAccountID || amount != t.Amount {
		return ErrIdempotencyConflict
	}

	return nil
}
