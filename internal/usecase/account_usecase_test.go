package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dnrdl12/remit/internal/domain"
	"github.com/dnrdl12/remit/internal/usecase"
	"github.com/dnrdl12/remit/internal/usecase/mocks"
)

type accountFixture struct {
	accounts    *mocks.MockAccountRepository
	members     *mocks.MockMemberRepository
	snapshots   *mocks.MockSnapshotRepository
	feePolicies *mocks.MockFeePolicyRepository
	cache       *mocks.MockCache
	txManager   *mocks.MockTransactionManager
	uc          *usecase.AccountUseCase
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		accounts:    mocks.NewMockAccountRepository(),
		members:     mocks.NewMockMemberRepository(),
		snapshots:   mocks.NewMockSnapshotRepository(),
		feePolicies: mocks.NewMockFeePolicyRepository(),
		cache:       mocks.NewMockCache(),
		txManager:   mocks.NewMockTransactionManager(),
	}

	f.members.Put(&domain.Member{ID: 1, Name: "Alice", Status: domain.MemberActive})
	f.feePolicies.Put(&domain.FeePolicy{
		ID:              1,
		Name:            "STANDARD",
		TransferFeeRate: decimal.NewFromFloat(0.001),
		WithdrawFeeRate: decimal.NewFromFloat(0.001),
	})

	f.uc = usecase.NewAccountUseCase(
		usecase.AccountDefaults{
			BankCode:           "088",
			BranchCode:         "001",
			DailyTransferLimit: 10000000,
			DailyWithdrawLimit: 10000000,
		},
		f.txManager,
		f.accounts,
		f.members,
		f.snapshots,
		f.feePolicies,
		f.cache,
	)

	return f
}

func int64Ptr(v int64) *int64 { return &v }

func TestAccountUseCase_CreateAccount(t *testing.T) {
	f := newAccountFixture()

	account, err := f.uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
		MemberID:    1,
		Nickname:    "spending",
		FeePolicyID: int64Ptr(1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.ID == 0 {
		t.Errorf("expected an assigned id")
	}
	if account.Status != domain.AccountStatusNormal {
		t.Errorf("new accounts open NORMAL, got %s", account.Status)
	}
	if account.Type != domain.AccountTypeNormal {
		t.Errorf("empty type defaults to NORMAL, got %s", account.Type)
	}
	if account.BankCode != "088" || account.BranchCode != "001" {
		t.Errorf("bank defaults not applied: %s-%s", account.BankCode, account.BranchCode)
	}
	if account.DailyTransferLimit != 10000000 {
		t.Errorf("limit default not applied, got %d", account.DailyTransferLimit)
	}

	// Zero-balance snapshot exists from the same unit of work.
	balance, err := f.snapshots.Get(context.Background(), account.ID)
	if err != nil || balance != 0 {
		t.Errorf("expected zero snapshot, got %d (%v)", balance, err)
	}

	if len(f.txManager.Transactions) != 1 || !f.txManager.Transactions[0].Committed {
		t.Errorf("account creation must commit one transaction")
	}
}

func TestAccountUseCase_CreateAccountValidation(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *accountFixture)
		input   usecase.CreateAccountInput
		wantErr error
	}{
		{
			name:    "unknown member",
			input:   usecase.CreateAccountInput{MemberID: 99, FeePolicyID: int64Ptr(1)},
			wantErr: domain.ErrMemberNotFound,
		},
		{
			name: "deleted member",
			setup: func(f *accountFixture) {
				f.members.Put(&domain.Member{ID: 2, Name: "Bob", Status: domain.MemberDeleted})
			},
			input:   usecase.CreateAccountInput{MemberID: 2, FeePolicyID: int64Ptr(1)},
			wantErr: domain.ErrMemberDeleted,
		},
		{
			name:    "missing fee policy",
			input:   usecase.CreateAccountInput{MemberID: 1},
			wantErr: domain.ErrFeePolicyRequired,
		},
		{
			name:    "unknown fee policy",
			input:   usecase.CreateAccountInput{MemberID: 1, FeePolicyID: int64Ptr(99)},
			wantErr: domain.ErrFeePolicyNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAccountFixture()
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.uc.CreateAccount(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAccountUseCase_GetAccountDetail(t *testing.T) {
	f := newAccountFixture()
	f.accounts.Put(&domain.Account{
		ID: 10, AccountNumber: "088-001-0000000010", MemberID: 1,
		Status: domain.AccountStatusNormal, Type: domain.AccountTypeNormal,
		FeePolicyID: int64Ptr(1),
	})
	f.snapshots.SetBalance(10, 50000)

	detail, err := f.uc.GetAccountDetail(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if detail.Balance != 50000 {
		t.Errorf("expected balance 50000, got %d", detail.Balance)
	}
	if detail.PolicyName != "STANDARD" {
		t.Errorf("expected policy name, got %q", detail.PolicyName)
	}
	if detail.MemberName != "Alice" {
		t.Errorf("expected holder name, got %q", detail.MemberName)
	}

	// A second read is served from cache even after the balance changes
	// underneath.
	f.snapshots.SetBalance(10, 99999)

	cached, err := f.uc.GetAccountDetail(context.Background(), 10)
	if err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if cached.Balance != 50000 {
		t.Errorf("expected cached balance 50000, got %d", cached.Balance)
	}
}

func TestAccountUseCase_GetBalance(t *testing.T) {
	f := newAccountFixture()
	f.accounts.Put(&domain.Account{ID: 10, Status: domain.AccountStatusNormal})
	f.snapshots.SetBalance(10, 12345)

	balance, err := f.uc.GetBalance(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 12345 {
		t.Errorf("expected 12345, got %d", balance)
	}

	if _, err := f.uc.GetBalance(context.Background(), 99); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountUseCase_PatchAccount(t *testing.T) {
	suspend := domain.AccountStatusSuspended
	closed := domain.AccountStatusClosed
	nickname := "savings"

	tests := []struct {
		name       string
		status     domain.AccountStatus
		input      usecase.PatchAccountInput
		wantErr    error
		wantStatus domain.AccountStatus
	}{
		{
			name:       "suspend a normal account",
			status:     domain.AccountStatusNormal,
			input:      usecase.PatchAccountInput{Status: &suspend},
			wantStatus: domain.AccountStatusSuspended,
		},
		{
			name:       "rename only",
			status:     domain.AccountStatusNormal,
			input:      usecase.PatchAccountInput{Nickname: &nickname},
			wantStatus: domain.AccountStatusNormal,
		},
		{
			name:    "closing via patch is rejected",
			status:  domain.AccountStatusNormal,
			input:   usecase.PatchAccountInput{Status: &closed},
			wantErr: domain.ErrInvalidAccountStatus,
		},
		{
			name:    "closed accounts are immutable",
			status:  domain.AccountStatusClosed,
			input:   usecase.PatchAccountInput{Nickname: &nickname},
			wantErr: domain.ErrAccountClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAccountFixture()
			f.accounts.Put(&domain.Account{ID: 10, Status: tt.status})

			account, err := f.uc.PatchAccount(context.Background(), 10, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}

			if account.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, account.Status)
			}
			if tt.input.Nickname != nil && account.Nickname != *tt.input.Nickname {
				t.Errorf("expected nickname %q, got %q", *tt.input.Nickname, account.Nickname)
			}
		})
	}
}

func TestAccountUseCase_CloseAccount(t *testing.T) {
	f := newAccountFixture()
	f.accounts.Put(&domain.Account{ID: 10, Status: domain.AccountStatusNormal})

	account, err := f.uc.CloseAccount(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Status != domain.AccountStatusClosed {
		t.Errorf("expected CLOSED, got %s", account.Status)
	}
	if account.ClosedAt == nil {
		t.Errorf("expected a closed timestamp")
	}

	if _, err := f.uc.CloseAccount(context.Background(), 10); !errors.Is(err, domain.ErrAccountAlreadyClosed) {
		t.Errorf("expected ErrAccountAlreadyClosed, got %v", err)
	}
}

func TestAccountUseCase_PatchInvalidatesDetailCache(t *testing.T) {
	f := newAccountFixture()
	f.accounts.Put(&domain.Account{
		ID: 10, MemberID: 1, Status: domain.AccountStatusNormal,
	})
	f.snapshots.SetBalance(10, 100)

	if _, err := f.uc.GetAccountDetail(context.Background(), 10); err != nil {
		t.Fatalf("detail read: %v", err)
	}

	nickname := "renamed"
	if _, err := f.uc.PatchAccount(context.Background(), 10, usecase.PatchAccountInput{Nickname: &nickname}); err != nil {
		t.Fatalf("patch: %v", err)
	}

	detail, err := f.uc.GetAccountDetail(context.Background(), 10)
	if err != nil {
		t.Fatalf("detail re-read: %v", err)
	}
	if detail.Account.Nickname != "renamed" {
		t.Errorf("stale cache survived the patch: %q", detail.Account.Nickname)
	}
}
