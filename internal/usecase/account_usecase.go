package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/dnrdl12/remit/internal/domain"
)

// AccountDefaults are applied when a create request leaves fields empty.
type AccountDefaults struct {
	BankCode           string
	BranchCode         string
	DailyTransferLimit int64
	DailyWithdrawLimit int64
}

// AccountUseCase handles account management.
type AccountUseCase struct {
	defaults      AccountDefaults
	txManager     TransactionManager
	accountRepo   AccountRepository
	memberRepo    MemberRepository
	snapshotRepo  SnapshotRepository
	feePolicyRepo FeePolicyRepository
	cache         Cache
	cacheTTL      time.Duration
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	defaults AccountDefaults,
	txManager TransactionManager,
	accountRepo AccountRepository,
	memberRepo MemberRepository,
	snapshotRepo SnapshotRepository,
	feePolicyRepo FeePolicyRepository,
	cache Cache,
) *AccountUseCase {
	return &AccountUseCase{
		defaults:      defaults,
		txManager:     txManager,
		accountRepo:   accountRepo,
		memberRepo:    memberRepo,
		snapshotRepo:  snapshotRepo,
		feePolicyRepo: feePolicyRepo,
		cache:         cache,
		cacheTTL:      30 * time.Second,
	}
}

// CreateAccountInput represents input for opening an account.
type CreateAccountInput struct {
	MemberID           int64
	Nickname           string
	Type               domain.AccountType
	BankCode           string
	BranchCode         string
	FeePolicyID        *int64
	DailyTransferLimit int64
	DailyWithdrawLimit int64
}

// CreateAccount opens an account with a zero-balance snapshot.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	member, err := uc.memberRepo.GetByID(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}

	if member.Status == domain.MemberDeleted {
		return nil, domain.ErrMemberDeleted
	}

	if input.FeePolicyID == nil {
		return nil, domain.ErrFeePolicyRequired
	}

	if _, err := uc.feePolicyRepo.GetByID(ctx, *input.FeePolicyID); err != nil {
		return nil, err
	}

	account := &domain.Account{
		AccountNumber:      uc.generateAccountNumber(),
		MemberID:           member.ID,
		Status:             domain.AccountStatusNormal,
		Type:               input.Type,
		Nickname:           input.Nickname,
		BankCode:           input.BankCode,
		BranchCode:         input.BranchCode,
		FeePolicyID:        input.FeePolicyID,
		DailyTransferLimit: input.DailyTransferLimit,
		DailyWithdrawLimit: input.DailyWithdrawLimit,
		CreatedAt:          time.Now().UTC(),
	}

	if account.Type == "" {
		account.Type = domain.AccountTypeNormal
	}

	if account.BankCode == "" {
		account.BankCode = uc.defaults.BankCode
	}

	if account.BranchCode == "" {
		account.BranchCode = uc.defaults.BranchCode
	}

	if account.DailyTransferLimit == 0 {
		account.DailyTransferLimit = uc.defaults.DailyTransferLimit
	}

	if account.DailyWithdrawLimit == 0 {
		account.DailyWithdrawLimit = uc.defaults.DailyWithdrawLimit
	}

	// Account row and its zero-balance snapshot commit together.
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	id, err := uc.accountRepo.Create(ctx, tx, account)
	if err != nil {
		return nil, err
	}

	account.ID = id

	if err := uc.snapshotRepo.Init(ctx, tx, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}

// AccountDetail is the full account view: balance snapshot, fee policy and
// holder summary included.
type AccountDetail struct {
	Account         *domain.Account  `json:"account"`
	Balance         int64            `json:"balance"`
	PolicyName      string           `json:"policy_name,omitempty"`
	TransferFeeRate string           `json:"transfer_fee_rate,omitempty"`
	WithdrawFeeRate string           `json:"withdraw_fee_rate,omitempty"`
	MemberName      string           `json:"member_name,omitempty"`
	MemberStatus    domain.MemberStatus `json:"member_status,omitempty"`
}

// GetAccountDetail returns the detail view, served from cache when fresh.
func (uc *AccountUseCase) GetAccountDetail(ctx context.Context, id int64) (*AccountDetail, error) {
	cacheKey := fmt.Sprintf("account:detail:%d", id)

	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var detail AccountDetail
			if err := json.Unmarshal([]byte(raw), &detail); err == nil {
				return &detail, nil
			}
		}
	}

	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	balance, err := uc.snapshotRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &AccountDetail{
		Account: account,
		Balance: balance,
	}

	if account.FeePolicyID != nil {
		policy, err := uc.feePolicyRepo.GetByID(ctx, *account.FeePolicyID)
		if err != nil {
			return nil, err
		}

		detail.PolicyName = policy.Name
		detail.TransferFeeRate = policy.TransferFeeRate.String()
		detail.WithdrawFeeRate = policy.WithdrawFeeRate.String()
	}

	member, err := uc.memberRepo.GetByID(ctx, account.MemberID)
	if err == nil {
		detail.MemberName = member.Name
		detail.MemberStatus = member.Status
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(detail); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, string(raw), uc.cacheTTL)
		}
	}

	return detail, nil
}

// GetBalance returns the snapshot balance for an account.
func (uc *AccountUseCase) GetBalance(ctx context.Context, id int64) (int64, error) {
	if _, err := uc.accountRepo.GetByID(ctx, id); err != nil {
		return 0, err
	}

	return uc.snapshotRepo.Get(ctx, id)
}

// SearchAccounts lists accounts matching a filter.
func (uc *AccountUseCase) SearchAccounts(ctx context.Context, filter domain.AccountSearchFilter, limit, offset int) ([]*domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}

	if limit > 100 {
		limit = 100
	}

	return uc.accountRepo.Search(ctx, filter, limit, offset)
}

// PatchAccountInput carries optional field updates.
type PatchAccountInput struct {
	Nickname *string
	Status   *domain.AccountStatus
}

// PatchAccount updates nickname and/or status. Status moves only between
// NORMAL and SUSPENDED here; closing goes through CloseAccount.
func (uc *AccountUseCase) PatchAccount(ctx context.Context, id int64, input PatchAccountInput) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if account.Status == domain.AccountStatusClosed {
		return nil, domain.ErrAccountClosed
	}

	if input.Nickname != nil {
		account.Nickname = *input.Nickname
	}

	if input.Status != nil {
		switch *input.Status {
		case domain.AccountStatusNormal, domain.AccountStatusSuspended:
			account.Status = *input.Status
		default:
			return nil, domain.ErrInvalidAccountStatus
		}
	}

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	uc.invalidateDetail(ctx, id)

	return account, nil
}

// CloseAccount closes an account. Closing is terminal.
func (uc *AccountUseCase) CloseAccount(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if account.Status == domain.AccountStatusClosed {
		return nil, domain.ErrAccountAlreadyClosed
	}

	now := time.Now().UTC()
	account.Status = domain.AccountStatusClosed
	account.ClosedAt = &now

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	uc.invalidateDetail(ctx, id)

	return account, nil
}

func (uc *AccountUseCase) invalidateDetail(ctx context.Context, id int64) {
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, fmt.Sprintf("account:detail:%d", id))
	}
}

// generateAccountNumber builds a bank-branch-serial style account number.
func (uc *AccountUseCase) generateAccountNumber() string {
	return fmt.Sprintf("%s-%s-%010d", uc.defaults.BankCode, uc.defaults.BranchCode, rand.Int63n(1e10))
}
