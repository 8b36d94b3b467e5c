package dto

import (
	"time"

	"github.com/dnrdl12/remit/internal/domain"
	"github.com/dnrdl12/remit/internal/usecase"
)

// MemberResponse represents a member in API responses. PII fields are
// masked unless the caller asked for the unmasked view.
type MemberResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	CI          string    `json:"ci"`
	DI          string    `json:"di"`
	Status      string    `json:"status"`
	PrivConsent bool      `json:"priv_consent"`
	MsgConsent  bool      `json:"msg_consent"`
	CreatedAt   time.Time `json:"created_at"`
}

// MemberFromView converts a member view to a response.
func MemberFromView(v *usecase.MemberView) *MemberResponse {
	return &MemberResponse{
		ID:          v.ID,
		Name:        v.Name,
		Phone:       v.Phone,
		CI:          v.CI,
		DI:          v.DI,
		Status:      string(v.Status),
		PrivConsent: v.PrivConsent,
		MsgConsent:  v.MsgConsent,
		CreatedAt:   v.CreatedAt,
	}
}

// MembersFromViews converts member views to responses.
func MembersFromViews(views []*usecase.MemberView) []*MemberResponse {
	result := make([]*MemberResponse, len(views))
	for i, v := range views {
		result[i] = MemberFromView(v)
	}
	return result
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID                 int64      `json:"id"`
	AccountNumber      string     `json:"account_number"`
	MemberID           int64      `json:"member_id"`
	Status             string     `json:"status"`
	Type               string     `json:"type"`
	Nickname           string     `json:"nickname,omitempty"`
	BankCode           string     `json:"bank_code"`
	BranchCode         string     `json:"branch_code"`
	FeePolicyID        *int64     `json:"fee_policy_id,omitempty"`
	DailyTransferLimit int64      `json:"daily_transfer_limit"`
	DailyWithdrawLimit int64      `json:"daily_withdraw_limit"`
	CreatedAt          time.Time  `json:"created_at"`
	ClosedAt           *time.Time `json:"closed_at,omitempty"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:                 a.ID,
		AccountNumber:      a.AccountNumber,
		MemberID:           a.MemberID,
		Status:             string(a.Status),
		Type:               string(a.Type),
		Nickname:           a.Nickname,
		BankCode:           a.BankCode,
		BranchCode:         a.BranchCode,
		FeePolicyID:        a.FeePolicyID,
		DailyTransferLimit: a.DailyTransferLimit,
		DailyWithdrawLimit: a.DailyWithdrawLimit,
		CreatedAt:          a.CreatedAt,
		ClosedAt:           a.ClosedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// BalanceResponse reports an account balance.
type BalanceResponse struct {
	AccountID int64 `json:"account_id"`
	Balance   int64 `json:"balance"`
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID            string     `json:"id"`
	FromAccountID int64      `json:"from_account_id"`
	ToAccountID   int64      `json:"to_account_id"`
	Amount        int64      `json:"amount"`
	Fee           int64      `json:"fee"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	FailCode      string     `json:"fail_code,omitempty"`
	Memo          string     `json:"memo,omitempty"`
	RequestedAt   time.Time  `json:"requested_at"`
	PostedAt      *time.Time `json:"posted_at,omitempty"`
}

// TransferFromDomain converts a domain transfer to a response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	resp := &TransferResponse{
		ID:            t.ID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		Fee:           t.Fee,
		Currency:      t.Currency,
		Status:        string(t.Status),
		Memo:          t.Memo,
		RequestedAt:   t.RequestedAt,
		PostedAt:      t.PostedAt,
	}
	if t.FailCode != nil {
		resp.FailCode = string(*t.FailCode)
	}
	return resp
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID         string    `json:"id"`
	TransferID string    `json:"transfer_id"`
	AccountID  int64     `json:"account_id"`
	Amount     int64     `json:"amount"`
	Type       string    `json:"type"`
	Currency   string    `json:"currency"`
	EntryAt    time.Time `json:"entry_at"`
}

// EntryFromDomain converts a domain ledger entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:         e.ID,
		TransferID: e.TransferID,
		AccountID:  e.AccountID,
		Amount:     e.Amount,
		Type:       string(e.Type),
		Currency:   e.Currency,
		EntryAt:    e.EntryAt,
	}
}

// EntriesFromDomain converts domain ledger entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// FeePolicyResponse represents a fee policy in API responses.
type FeePolicyResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	TransferFeeRate string `json:"transfer_fee_rate"`
	WithdrawFeeRate string `json:"withdraw_fee_rate"`
	EventFlag       bool   `json:"event_flag"`
}

// FeePolicyFromDomain converts a domain fee policy to a response.
func FeePolicyFromDomain(p *domain.FeePolicy) *FeePolicyResponse {
	return &FeePolicyResponse{
		ID:              p.ID,
		Name:            p.Name,
		TransferFeeRate: p.TransferFeeRate.String(),
		WithdrawFeeRate: p.WithdrawFeeRate.String(),
		EventFlag:       p.EventFlag,
	}
}

// FeePoliciesFromDomain converts domain fee policies to responses.
func FeePoliciesFromDomain(policies []*domain.FeePolicy) []*FeePolicyResponse {
	result := make([]*FeePolicyResponse, len(policies))
	for i, p := range policies {
		result[i] = FeePolicyFromDomain(p)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
