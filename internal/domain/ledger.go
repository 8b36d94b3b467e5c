package domain

import "time"

// EntryType labels the sign of a ledger entry amount. It is derived from
// the sign, never set independently of it.
type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// EntryTypeFor returns the entry type matching the sign of amount.
func EntryTypeFor(amount int64) EntryType {
	if amount < 0 {
		return EntryDebit
	}

	return EntryCredit
}

// LedgerEntry is one immutable debit or credit line. Entries for one
// transfer always sum to zero. Entries are append-only and never deleted.
type LedgerEntry struct {
	ID         string
	TransferID string
	AccountID  int64
	Amount     int64
	Type       EntryType
	Currency   string
	EntryAt    time.Time
}

// NewLedgerEntry builds an entry with the type derived from the amount sign.
func NewLedgerEntry(transferID string, accountID, amount int64, currency string, at time.Time) LedgerEntry {
	return LedgerEntry{
		TransferID: transferID,
		AccountID:  accountID,
		Amount:     amount,
		Type:       EntryTypeFor(amount),
		Currency:   currency,
		EntryAt:    at,
	}
}

// ValidateBalanced asserts that entries sum to zero. A violation is a
// programmer error at the call site, not a recoverable user error.
func ValidateBalanced(entries []LedgerEntry) error {
	var sum int64
	for _, e := range entries {
		sum += e.Amount
	}

	if sum != 0 {
		return ErrUnbalancedEntries
	}

	return nil
}
