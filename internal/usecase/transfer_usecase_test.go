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

const (
	systemAccountID = int64(1)
	feeAccountID    = int64(2)
	testCurrency    = "KRW"
)

type transferFixture struct {
	accounts    *mocks.MockAccountRepository
	transfers   *mocks.MockTransferRepository
	ledger      *mocks.MockLedgerRepository
	snapshots   *mocks.MockSnapshotRepository
	feePolicies *mocks.MockFeePolicyRepository
	outbox      *mocks.MockOutboxRepository
	txManager   *mocks.MockTransactionManager
	uc          *usecase.TransferUseCase
}

// newTransferFixture wires the engine against in-memory repositories with
// the settlement and fee accounts seeded.
func newTransferFixture() *transferFixture {
	f := &transferFixture{
		accounts:    mocks.NewMockAccountRepository(),
		transfers:   mocks.NewMockTransferRepository(),
		ledger:      mocks.NewMockLedgerRepository(),
		snapshots:   mocks.NewMockSnapshotRepository(),
		feePolicies: mocks.NewMockFeePolicyRepository(),
		outbox:      mocks.NewMockOutboxRepository(),
		txManager:   mocks.NewMockTransactionManager(),
	}

	f.accounts.Put(&domain.Account{
		ID: systemAccountID, AccountNumber: "088-001-0000000001",
		Status: domain.AccountStatusNormal, Type: domain.AccountTypeNormal,
	})
	f.accounts.Put(&domain.Account{
		ID: feeAccountID, AccountNumber: "088-001-0000000002",
		Status: domain.AccountStatusNormal, Type: domain.AccountTypeNormal,
	})

	f.feePolicies.Put(&domain.FeePolicy{
		ID:              1,
		Name:            "STANDARD",
		TransferFeeRate: decimal.NewFromFloat(0.001),
		WithdrawFeeRate: decimal.NewFromFloat(0.001),
	})

	f.uc = usecase.NewTransferUseCase(
		usecase.SettlementConfig{
			SystemAccountID: systemAccountID,
			FeeAccountID:    feeAccountID,
			Currency:        testCurrency,
		},
		f.txManager,
		&mocks.MockRetrier{},
		f.accounts,
		f.transfers,
		f.ledger,
		f.snapshots,
		f.feePolicies,
		f.outbox,
		mocks.MockUniqueViolation{},
		&mocks.MockIDGenerator{},
	)

	return f
}

func (f *transferFixture) addAccount(id int64, number string, status domain.AccountStatus, balance int64, withPolicy bool) *domain.Account {
	acc := &domain.Account{
		ID:            id,
		AccountNumber: number,
		Status:        status,
		Type:          domain.AccountTypeNormal,
	}
	if withPolicy {
		policyID := int64(1)
		acc.FeePolicyID = &policyID
	}
	f.accounts.Put(acc)
	f.snapshots.SetBalance(id, balance)
	return acc
}

func TestTransferUseCase_Deposit(t *testing.T) {
	f := newTransferFixture()
	f.addAccount(10, "088-001-0000000010", domain.AccountStatusNormal, 0, true)

	transfer, err := f.uc.Deposit(context.Background(), usecase.DepositInput{
		ClientID:       "client-a",
		IdempotencyKey: "dep-1",
		AccountNumber:  "088-001-0000000010",
		Amount:         100000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if transfer.Status != domain.TransferPosted {
		t.Errorf("expected POSTED, got %s", transfer.Status)
	}
	if transfer.Fee != 0 {
		t.Errorf("deposits carry no fee, got %d", transfer.Fee)
	}

	balance, _ := f.snapshots.Get(context.Background(), 10)
	if balance != 100000 {
		t.Errorf("expected balance 100000, got %d", balance)
	}

	entries, _ := f.ledger.GetByTransfer(context.Background(), transfer.ID)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	var sum int64
	for _, e := range entries {
		sum += e.Amount
	}
	if sum != 0 {
		t.Errorf("entries must sum to zero, got %d", sum)
	}

	events := f.outbox.Events()
	if len(events) != 1 || events[0].EventType != domain.EventTransferPosted {
		t.Errorf("expected one TRANSFER_POSTED outbox event, got %v", events)
	}
}

func TestTransferUseCase_DepositInvalidAmount(t *testing.T) {
	f := newTransferFixture()

	for _, amount := range []int64{0, -1} {
		_, err := f.uc.Deposit(context.Background(), usecase.DepositInput{
			ClientID:       "client-a",
			IdempotencyKey: "dep-bad",
			AccountNumber:  "088-001-0000000010",
			Amount:         amount,
		})
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}

	if len(f.transfers.Rows()) != 0 {
		t.Errorf("rejected requests must not write transfer rows")
	}
}

func TestTransferUseCase_DepositSuspendedAccountWritesAudit(t *testing.T) {
	f := newTransferFixture()
	f.addAccount(10, "088-001-0000000010", domain.AccountStatusSuspended, 0, true)

	_, err := f.uc.Deposit(context.Background(), usecase.DepositInput{
		ClientID:       "client-a",
		IdempotencyKey: "dep-susp",
		AccountNumber:  "088-001-0000000010",
		Amount:         5000,
	})
	if !errors.Is(err, domain.ErrAccountSuspended) {
		t.Fatalf("expected ErrAccountSuspended, got %v", err)
	}

	// The FAILED audit row survives the rolled-back unit of work.
	rows := f.transfers.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(rows))
	}
	if rows[0].Status != domain.TransferFailed {
		t.Errorf("expected FAILED, got %s", rows[0].Status)
	}
	if rows[0].FailCode == nil || *rows[0].FailCode != domain.FailAccountStatus {
		t.Errorf("expected fail code ACCOUNT_STATUS_INVALID, got %v", rows[0].FailCode)
	}

	// No money moved.
	if balance, _ := f.snapshots.Get(context.Background(), 10); balance != 0 {
		t.Errorf("balance must be untouched, got %d", balance)
	}
	if len(f.ledger.Entries()) != 0 {
		t.Errorf("no ledger entries may exist for a failed transfer")
	}
}

func TestTransferUseCase_WithdrawWithFee(t *testing.T) {
	f := newTransferFixture()
	f.addAccount(10, "088-001-0000000010", domain.AccountStatusNormal, 200000, true)

	transfer, err := f.uc.Withdraw(context.Background(), usecase.WithdrawInput{
		ClientID:       "client-a",
		IdempotencyKey: "wd-1",
		AccountNumber:  "088-001-0000000010",
		Amount:         100000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if transfer.Fee != 100 {
		t.Errorf("expected fee 100 (0.1%% of 100000), got %d", transfer.Fee)
	}

	// Source pays amount+fee; settlement and fee revenue receive the split.
	if balance, _ := f.snapshots.Get(context.Background(), 10); balance != 99900 {
		t.Errorf("expected source balance 99900, got %d", balance)
	}
	if balance, _ := f.snapshots.Get(context.Background(), systemAccountID); balance != 100000 {
		t.Errorf("expected settlement balance 100000, got %d", balance)
	}
	if balance, _ := f.snapshots.Get(context.Background(), feeAccountID); balance != 100 {
		t.Errorf("expected fee account balance 100, got %d", balance)
	}

	entries, _ := f.ledger.GetByTransfer(context.Background(), transfer.ID)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries with a fee, got %d", len(entries))
	}
}

func TestTransferUseCase_WithdrawInsufficientBalance(t *testing.T) {
	f := newTransferFixture()
	f.addAccount(10, "088-001-0000000010", domain.AccountStatusNormal, 100000, true)

	// amount+fee exceeds the balance even though amount alone fits
	_, err := f.uc.Withdraw(context.Background(), usecase.WithdrawInput{
		ClientID:       "client-a",
		IdempotencyKey: "wd-short",
		AccountNumber:  "088-001-0000000010",
		Amount:         100000,
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	rows := f.transfers.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(rows))
	}
	if rows[0].FailCode == nil || *rows[0].FailCode != domain.FailInsufficientBalance {
		t.Errorf("expected fail code INSUFFICIENT_BALANCE, got %v", rows[0].FailCode)
	}

	if balance, _ := f.snapshots.Get(context.Background(), 10); balance != 100000 {
		t.Errorf("balance must be untouched, got %d", balance)
	}
}

func TestTransferUseCase_TransferWithFee(t *testing.T) {
	f := newTransferFixture()
	f.addAccount(10, "088-001-0000000010", domain.AccountStatusNormal, 200000, true)
	f.addAccount(20, "088-001-0000000020", domain.AccountStatusNormal, 0, true)

	transfer, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		ClientID:          "client-a",
		IdempotencyKey:    "tr-1",
		FromAccountNumber: "088-001-0000000010",
		ToAccountNumber:   "088-001-0000000020",
		Amount:            100000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if transfer.Fee != 100 {
		t.Errorf("expected fee 100, got %d", transfer.Fee)
	}

	if balance, _ := f.snapshots.Get(context.Background(), 10); balance != 99900 {
		t.Errorf("expected source balance 99900, got %d", balance)
	}
	if balance, _ := f.snapshots.Get(context.Background(), 20); balance != 100000 {
		t.Errorf("expected target balance 100000, got %d", balance)
	}
	if balance, _ := f.snapshots.Get(context.Background(), feeAccountID); balance != 100 {
		t.Errorf("expected fee revenue 100, got %d", balance)
	}
}

func TestTransferUseCase_TransferNoPolicyNoFee(t *testing.T) {
	f := newTransferFixture()
	f.addAccount(10, "088-001-0000000010", domain.AccountStatusNormal, 50000, false)
	f.addAccount(20, "088-001-0000000020", domain.AccountStatusNormal, 0, false)

	transfer, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		ClientID:          "client-a",
		IdempotencyKey:    "tr-nofee",
		FromAccountNumber: "088-001-0000000010",
		ToAccountNumber:   "088-001-0000000020",
		Amount:            50000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if transfer.Fee != 0 {
		t.Errorf("expected zero fee without a policy, got %d", transfer.Fee)
	}

	entries, _ := f.ledger.GetByTransfer(context.Background(), transfer.ID)
	if len(entries) != 2 {
		t.Errorf("expected 2 entries without a fee, got %d", len(entries))
	}
}

func TestTransferUseCase_TransferSameAccount(t *testing.T) {
	f := newTransferFixture()

	_, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		ClientID:          "client-a",
		IdempotencyKey:    "tr-same",
		FromAccountNumber: "088-001-0000000010",
		ToAccountNumber:   "088-001-0000000010",
		Amount:            100,
	})
	if !errors.Is(err, domain.ErrSameAccount) {
		t.Fatalf("expected ErrSameAccount, got %v", err)
	}
}

func TestTransferUseCase_IdempotentReplay(t *testing.T) {
	f := newTransferFixture()
	f.addAccount(10, "088-001-0000000010", domain.AccountStatusNormal, 0, true)

	input := usecase.DepositInput{
		ClientID:       "client-a",
		IdempotencyKey: "dep-replay",
		AccountNumber:  "088-001-0000000010",
		Amount:         100000,
	}

	first, err := f.uc.Deposit(context.Background(), input)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}

	second, err := f.uc.Deposit(context.Background(), input)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("replay must return the stored transfer: %s vs %s", first.ID, second.ID)
	}

	// Exactly one row, money moved exactly once.
	if len(f.transfers.Rows()) != 1 {
		t.Errorf("expected 1 transfer row, got %d", len(f.transfers.Rows()))
	}
	if balance, _ := f.snapshots.Get(context.Background(), 10); balance != 100000 {
		t.Errorf("expected balance 100000 after replay, got %d", balance)
	}
}

func TestTransferUseCase_ReplayParameterMismatch(t *testing.T) {
	f := newTransferFixture()
	f.addAccount(10, "088-001-0000000010", domain.AccountStatusNormal, 0, true)

	input := usecase.DepositInput{
		ClientID:       "client-a",
		IdempotencyKey: "dep-conflict",
		AccountNumber:  "088-001-0000000010",
		Amount:         100000,
	}
	if _, err := f.uc.Deposit(context.Background(), input); err != nil {
		t.Fatalf("first call: %v", err)
	}

	input.Amount = 200000
	_, err := f.uc.Deposit(context.Background(), input)
	if !errors.Is(err, domain.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
	}
}

func TestTransferUseCase_InsertRaceReturnsWinner(t *testing.T) {
	f := newTransferFixture()
	f.addAccount(10, "088-001-0000000010", domain.AccountStatusNormal, 0, true)

	// The resolver sees nothing, but the insert hits the unique constraint:
	// another request committed the row between the read and the write.
	winner := &domain.Transfer{
		ID:             "winner",
		ClientID:       "client-a",
		IdempotencyKey: "dep-race",
		FromAccountID:  systemAccountID,
		ToAccountID:    10,
		Amount:         100000,
		Currency:       testCurrency,
		Status:         domain.TransferPosted,
	}

	f.transfers.GetByClientAndKeyTxFunc = func(ctx context.Context, tx usecase.Transaction, clientID, key string) (*domain.Transfer, error) {
		return nil, domain.ErrTransferNotFound
	}
	f.transfers.CreateFunc = func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
		return mocks.ErrDuplicateKey
	}
	f.transfers.GetByClientAndKeyFunc = func(ctx context.Context, clientID, key string) (*domain.Transfer, error) {
		return winner, nil
	}

	got, err := f.uc.Deposit(context.Background(), usecase.DepositInput{
		ClientID:       "client-a",
		IdempotencyKey: "dep-race",
		AccountNumber:  "088-001-0000000010",
		Amount:         100000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "winner" {
		t.Errorf("expected the committed winner row, got %s", got.ID)
	}

	// The loser moved no money.
	if balance, _ := f.snapshots.Get(context.Background(), 10); balance != 0 {
		t.Errorf("losing request must not move money, got balance %d", balance)
	}
}

func TestTransferUseCase_InsertRaceWithDifferentParamsConflicts(t *testing.T) {
	f := newTransferFixture()
	f.addAccount(10, "088-001-0000000010", domain.AccountStatusNormal, 0, true)

	// The committed winner carries a different amount than the loser, so the
	// loser must get a conflict, not the winner's transfer.
	winner := &domain.Transfer{
		ID:             "winner",
		ClientID:       "client-a",
		IdempotencyKey: "dep-race",
		FromAccountID:  systemAccountID,
		ToAccountID:    10,
		Amount:         999999,
		Currency:       testCurrency,
		Status:         domain.TransferPosted,
	}

	f.transfers.GetByClientAndKeyTxFunc = func(ctx context.Context, tx usecase.Transaction, clientID, key string) (*domain.Transfer, error) {
		return nil, domain.ErrTransferNotFound
	}
	f.transfers.CreateFunc = func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
		return mocks.ErrDuplicateKey
	}
	f.transfers.GetByClientAndKeyFunc = func(ctx context.Context, clientID, key string) (*domain.Transfer, error) {
		return winner, nil
	}

	got, err := f.uc.Deposit(context.Background(), usecase.DepositInput{
		ClientID:       "client-a",
		IdempotencyKey: "dep-race",
		AccountNumber:  "088-001-0000000010",
		Amount:         100000,
	})
	if !errors.Is(err, domain.ErrIdempotencyConflict) {
		t.Fatalf("expected ErrIdempotencyConflict, got %v", err)
	}
	if got != nil {
		t.Errorf("conflicting replay must not return a transfer, got %+v", got)
	}

	if balance, _ := f.snapshots.Get(context.Background(), 10); balance != 0 {
		t.Errorf("losing request must not move money, got balance %d", balance)
	}
}

func TestTransferUseCase_LockOrderIsAscending(t *testing.T) {
	f := newTransferFixture()
	f.addAccount(20, "088-001-0000000020", domain.AccountStatusNormal, 200000, false)
	f.addAccount(10, "088-001-0000000010", domain.AccountStatusNormal, 0, false)

	// Transfer from the higher id to the lower one; locks must still be
	// taken smallest id first.
	_, err := f.uc.Transfer(context.Background(), usecase.TransferInput{
		ClientID:          "client-a",
		IdempotencyKey:    "tr-order",
		FromAccountNumber: "088-001-0000000020",
		ToAccountNumber:   "088-001-0000000010",
		Amount:            1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := f.accounts.LockOrder
	if len(order) != 2 || order[0] != 10 || order[1] != 20 {
		t.Errorf("expected lock order [10 20], got %v", order)
	}
}

func TestTransferUseCase_FailedAuditSurvivesRollback(t *testing.T) {
	f := newTransferFixture()
	f.addAccount(10, "088-001-0000000010", domain.AccountStatusNormal, 0, true)

	_, err := f.uc.Withdraw(context.Background(), usecase.WithdrawInput{
		ClientID:       "client-a",
		IdempotencyKey: "wd-audit",
		AccountNumber:  "088-001-0000000010",
		Amount:         1000,
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// Two transactions: the rolled-back unit of work and the committed
	// audit write.
	txs := f.txManager.Transactions
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if !txs[0].RolledBack {
		t.Errorf("unit of work must roll back")
	}
	if !txs[1].Committed {
		t.Errorf("audit transaction must commit")
	}
}

func TestTransferUseCase_ReplayOfFailedRequest(t *testing.T) {
	f := newTransferFixture()
	f.addAccount(10, "088-001-0000000010", domain.AccountStatusNormal, 0, true)

	input := usecase.WithdrawInput{
		ClientID:       "client-a",
		IdempotencyKey: "wd-failed-replay",
		AccountNumber:  "088-001-0000000010",
		Amount:         1000,
	}

	if _, err := f.uc.Withdraw(context.Background(), input); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	// Replaying the failed request returns the FAILED record instead of
	// retrying the movement.
	replayed, err := f.uc.Withdraw(context.Background(), input)
	if err != nil {
		t.Fatalf("replay of failed request: %v", err)
	}
	if replayed.Status != domain.TransferFailed {
		t.Errorf("expected FAILED on replay, got %s", replayed.Status)
	}
	if len(f.transfers.Rows()) != 1 {
		t.Errorf("expected 1 row, got %d", len(f.transfers.Rows()))
	}
}

func TestTransferUseCase_ListTransfersClampLimit(t *testing.T) {
	f := newTransferFixture()

	f.transfers.ListByAccountFunc = func(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transfer, error) {
		if limit != 100 {
			t.Errorf("expected limit clamped to 100, got %d", limit)
		}
		return nil, nil
	}

	if _, err := f.uc.ListTransfersByAccount(context.Background(), 10, 5000, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
