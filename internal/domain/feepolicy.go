package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeKind selects which rate of a policy applies to an operation.
type FeeKind int

const (
	FeeWithdraw FeeKind = iota
	FeeTransfer
)

// FeePolicy holds the fee rates attached to an account. Read-only from the
// transfer engine's perspective.
type FeePolicy struct {
	ID              int64
	Name            string
	TransferFeeRate decimal.Decimal
	WithdrawFeeRate decimal.Decimal
	EventFlag       bool
	EventStartAt    *time.Time
	EventEndAt      *time.Time
}

// Fee computes the fee for amount in minor currency units. The product is
// truncated toward zero so the fee never exceeds the exact amount. A nil
// policy or non-positive amount yields zero.
func (p *FeePolicy) Fee(amount int64, kind FeeKind) int64 {
	if p == nil || amount <= 0 {
		return 0
	}

	rate := p.WithdrawFeeRate
	if kind == FeeTransfer {
		rate = p.TransferFeeRate
	}

	return decimal.NewFromInt(amount).Mul(rate).Truncate(0).IntPart()
}
