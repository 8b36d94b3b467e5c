package dto

import (
	"github.com/dnrdl12/remit/internal/domain"
	"github.com/dnrdl12/remit/internal/usecase"
)

// RegisterMemberRequest represents a request to register a member.
type RegisterMemberRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	CI          string `json:"ci"`
	DI          string `json:"di"`
	PrivConsent bool   `json:"priv_consent"`
	MsgConsent  bool   `json:"msg_consent"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterMemberRequest) ToUseCaseInput() usecase.RegisterMemberInput {
	return usecase.RegisterMemberInput{
		Name:        r.Name,
		Phone:       r.Phone,
		CI:          r.CI,
		DI:          r.DI,
		PrivConsent: r.PrivConsent,
		MsgConsent:  r.MsgConsent,
	}
}

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	MemberID           int64  `json:"member_id"`
	Nickname           string `json:"nickname"`
	Type               string `json:"type"`
	BankCode           string `json:"bank_code,omitempty"`
	BranchCode         string `json:"branch_code,omitempty"`
	FeePolicyID        *int64 `json:"fee_policy_id"`
	DailyTransferLimit int64  `json:"daily_transfer_limit,omitempty"`
	DailyWithdrawLimit int64  `json:"daily_withdraw_limit,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		MemberID:           r.MemberID,
		Nickname:           r.Nickname,
		Type:               domain.AccountType(r.Type),
		BankCode:           r.BankCode,
		BranchCode:         r.BranchCode,
		FeePolicyID:        r.FeePolicyID,
		DailyTransferLimit: r.DailyTransferLimit,
		DailyWithdrawLimit: r.DailyWithdrawLimit,
	}
}

// PatchAccountRequest represents a partial account update.
type PatchAccountRequest struct {
	Nickname *string `json:"nickname,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PatchAccountRequest) ToUseCaseInput() usecase.PatchAccountInput {
	input := usecase.PatchAccountInput{Nickname: r.Nickname}
	if r.Status != nil {
		status := domain.AccountStatus(*r.Status)
		input.Status = &status
	}
	return input
}

// DepositRequest represents a deposit into an account.
type DepositRequest struct {
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
	Memo          string `json:"memo,omitempty"`
}

// ToUseCaseInput converts to use case input. Client identity and the
// idempotency key travel in headers, not the body.
func (r *DepositRequest) ToUseCaseInput(clientID, idempotencyKey string) usecase.DepositInput {
	return usecase.DepositInput{
		ClientID:       clientID,
		IdempotencyKey: idempotencyKey,
		AccountNumber:  r.AccountNumber,
		Amount:         r.Amount,
		Memo:           r.Memo,
	}
}

// WithdrawRequest represents a withdrawal from an account.
type WithdrawRequest struct {
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
	Memo          string `json:"memo,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *WithdrawRequest) ToUseCaseInput(clientID, idempotencyKey string) usecase.WithdrawInput {
	return usecase.WithdrawInput{
		ClientID:       clientID,
		IdempotencyKey: idempotencyKey,
		AccountNumber:  r.AccountNumber,
		Amount:         r.Amount,
		Memo:           r.Memo,
	}
}

// TransferRequest represents an account-to-account transfer.
type TransferRequest struct {
	FromAccountNumber string `json:"from_account_number"`
	ToAccountNumber   string `json:"to_account_number"`
	Amount            int64  `json:"amount"`
	Memo              string `json:"memo,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput(clientID, idempotencyKey string) usecase.TransferInput {
	return usecase.TransferInput{
		ClientID:          clientID,
		IdempotencyKey:    idempotencyKey,
		FromAccountNumber: r.FromAccountNumber,
		ToAccountNumber:   r.ToAccountNumber,
		Amount:            r.Amount,
		Memo:              r.Memo,
	}
}
