package domain

// BalanceSnapshot is the materialized running balance of one account,
// equal to the sum of all ledger entry amounts for that account. It is
// created at zero when the account is opened and mutated only through
// signed-delta application by the transfer engine.
type BalanceSnapshot struct {
	AccountID int64
	Balance   int64
}
