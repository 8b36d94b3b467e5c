package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/dnrdl12/remit/internal/domain"
)

// SettlementConfig carries the internal account identifiers and currency the
// transfer engine needs. Injected at construction, never looked up ad hoc.
type SettlementConfig struct {
	SystemAccountID int64
	FeeAccountID    int64
	Currency        string
}

// TransferUseCase is the transfer engine. It composes idempotency
// resolution, ordered account locking, state validation, fee calculation,
// double-entry ledger writes and balance snapshot updates into one atomic
// unit of work per money-movement request.
type TransferUseCase struct {
	cfg           SettlementConfig
	txManager     TransactionManager
	retrier       Retrier
	accountRepo   AccountRepository
	transferRepo  TransferRepository
	ledgerRepo    LedgerRepository
	snapshotRepo  SnapshotRepository
	feePolicyRepo FeePolicyRepository
	outboxRepo    OutboxRepository
	uniq          UniqueViolation
	idGen         IDGenerator
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	cfg SettlementConfig,
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	transferRepo TransferRepository,
	ledgerRepo LedgerRepository,
	snapshotRepo SnapshotRepository,
	feePolicyRepo FeePolicyRepository,
	outboxRepo OutboxRepository,
	uniq UniqueViolation,
	idGen IDGenerator,
) *TransferUseCase {
	return &TransferUseCase{
		cfg:           cfg,
		txManager:     txManager,
		retrier:       retrier,
		accountRepo:   accountRepo,
		transferRepo:  transferRepo,
		ledgerRepo:    ledgerRepo,
		snapshotRepo:  snapshotRepo,
		feePolicyRepo: feePolicyRepo,
		outboxRepo:    outboxRepo,
		uniq:          uniq,
		idGen:         idGen,
	}
}

// DepositInput represents a deposit request: settlement account -> target
// account, no fee.
type DepositInput struct {
	ClientID       string
	IdempotencyKey string
	AccountNumber  string
	Amount         int64
	Memo           string
}

// WithdrawInput represents a withdrawal request: source account ->
// settlement account, withdraw fee rate applies.
type WithdrawInput struct {
	ClientID       string
	IdempotencyKey string
	AccountNumber  string
	Amount         int64
	Memo           string
}

// TransferInput represents an account-to-account transfer request, transfer
// fee rate applies.
type TransferInput struct {
	ClientID          string
	IdempotencyKey    string
	FromAccountNumber string
	ToAccountNumber   string
	Amount            int64
	Memo              string
}

// Deposit moves money from the settlement account into a customer account.
func (uc *TransferUseCase) Deposit(ctx context.Context, input DepositInput) (*domain.Transfer, error) {
	// 1. Validate amount before touching storage.
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	// 2. Resolve the target account by number (unlocked read).
	target, err := uc.accountRepo.GetByNumber(ctx, input.AccountNumber)
	if err != nil {
		return nil, err
	}

	return uc.run(ctx, func(tx Transaction) (*domain.Transfer, *domain.Transfer, error) {
		// 3. Lock settlement + target in identifier order.
		locked, err := uc.lockPair(ctx, tx, uc.cfg.SystemAccountID, target.ID)
		if err != nil {
			return nil, nil, err
		}

		toAccount := locked[target.ID]

		// 4. Idempotent replay short-circuits before any business logic.
		existing, err := uc.resolveReplay(ctx, tx, input.ClientID, input.IdempotencyKey,
			uc.cfg.SystemAccountID, toAccount.ID, input.Amount)
		if err != nil {
			return nil, nil, err
		}

		if existing != nil {
			return existing, nil, nil
		}

		// 5. Credit-side status validation, FAILED audit on rejection.
		if err := toAccount.ValidateCreditSide(); err != nil {
			audit := uc.failedTransfer(input.ClientID, input.IdempotencyKey,
				uc.cfg.SystemAccountID, toAccount.ID, input.Amount, 0, domain.FailAccountStatus)

			return nil, audit, err
		}

		// 6. PENDING transfer row.
		transfer := uc.pendingTransfer(input.ClientID, input.IdempotencyKey,
			uc.cfg.SystemAccountID, toAccount.ID, input.Amount, 0, input.Memo)

		if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
			return nil, nil, err
		}

		// 7. Two balanced entries: debit settlement, credit target.
		now := transfer.RequestedAt
		entries := []domain.LedgerEntry{
			domain.NewLedgerEntry(transfer.ID, uc.cfg.SystemAccountID, -input.Amount, uc.cfg.Currency, now),
			domain.NewLedgerEntry(transfer.ID, toAccount.ID, input.Amount, uc.cfg.Currency, now),
		}

		if err := uc.post(ctx, tx, transfer, entries); err != nil {
			return nil, nil, err
		}

		return transfer, nil, nil
	}, input.ClientID, input.IdempotencyKey, uc.cfg.SystemAccountID, target.ID, input.Amount)
}

// Withdraw moves money from a customer account to the settlement account.
func (uc *TransferUseCase) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Transfer, error) {
	// 1. Validate amount.
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	// 2. Resolve the source account by number (unlocked read).
	source, err := uc.accountRepo.GetByNumber(ctx, input.AccountNumber)
	if err != nil {
		return nil, err
	}

	return uc.run(ctx, func(tx Transaction) (*domain.Transfer, *domain.Transfer, error) {
		// 3. Lock source + settlement in identifier order.
		locked, err := uc.lockPair(ctx, tx, source.ID, uc.cfg.SystemAccountID)
		if err != nil {
			return nil, nil, err
		}

		fromAccount := locked[source.ID]

		// 4. Idempotent replay.
		existing, err := uc.resolveReplay(ctx, tx, input.ClientID, input.IdempotencyKey,
			fromAccount.ID, uc.cfg.SystemAccountID, input.Amount)
		if err != nil {
			return nil, nil, err
		}

		if existing != nil {
			return existing, nil, nil
		}

		// 5. Debit-side status validation.
		if err := fromAccount.ValidateDebitSide(); err != nil {
			audit := uc.failedTransfer(input.ClientID, input.IdempotencyKey,
				fromAccount.ID, uc.cfg.SystemAccountID, input.Amount, 0, domain.FailAccountStatus)

			return nil, audit, err
		}

		// 6. Withdraw fee from the source account's policy.
		fee, err := uc.calculateFee(ctx, fromAccount, input.Amount, domain.FeeWithdraw)
		if err != nil {
			return nil, nil, err
		}

		totalDebit := input.Amount + fee

		// 7. Balance sufficiency under the held row lock.
		balance, err := uc.snapshotRepo.GetTx(ctx, tx, fromAccount.ID)
		if err != nil {
			return nil, nil, err
		}

		if balance < totalDebit {
			audit := uc.failedTransfer(input.ClientID, input.IdempotencyKey,
				fromAccount.ID, uc.cfg.SystemAccountID, input.Amount, fee, domain.FailInsufficientBalance)

			return nil, audit, domain.ErrInsufficientBalance
		}

		// 8. PENDING transfer row.
		transfer := uc.pendingTransfer(input.ClientID, input.IdempotencyKey,
			fromAccount.ID, uc.cfg.SystemAccountID, input.Amount, fee, input.Memo)

		if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
			return nil, nil, err
		}

		// 9. Three entries when fee > 0: debit source for amount+fee, credit
		// settlement for amount, credit fee revenue for fee.
		now := transfer.RequestedAt
		entries := []domain.LedgerEntry{
			domain.NewLedgerEntry(transfer.ID, fromAccount.ID, -totalDebit, uc.cfg.Currency, now),
			domain.NewLedgerEntry(transfer.ID, uc.cfg.SystemAccountID, input.Amount, uc.cfg.Currency, now),
		}
		if fee > 0 {
			entries = append(entries,
				domain.NewLedgerEntry(transfer.ID, uc.cfg.FeeAccountID, fee, uc.cfg.Currency, now))
		}

		if err := uc.post(ctx, tx, transfer, entries); err != nil {
			return nil, nil, err
		}

		return transfer, nil, nil
	}, input.ClientID, input.IdempotencyKey, source.ID, uc.cfg.SystemAccountID, input.Amount)
}

// Transfer moves money between two customer accounts.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.Transfer, error) {
	// 1. Validate amount and account pair before any lookup.
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	if input.FromAccountNumber == input.ToAccountNumber {
		return nil, domain.ErrSameAccount
	}

	// 2. Resolve both accounts by number (unlocked reads).
	source, err := uc.accountRepo.GetByNumber(ctx, input.FromAccountNumber)
	if err != nil {
		return nil, err
	}

	target, err := uc.accountRepo.GetByNumber(ctx, input.ToAccountNumber)
	if err != nil {
		return nil, err
	}

	return uc.run(ctx, func(tx Transaction) (*domain.Transfer, *domain.Transfer, error) {
		// 3. Lock both accounts smallest identifier first.
		locked, err := uc.lockPair(ctx, tx, source.ID, target.ID)
		if err != nil {
			return nil, nil, err
		}

		fromAccount := locked[source.ID]
		toAccount := locked[target.ID]

		// 4. Idempotent replay.
		existing, err := uc.resolveReplay(ctx, tx, input.ClientID, input.IdempotencyKey,
			fromAccount.ID, toAccount.ID, input.Amount)
		if err != nil {
			return nil, nil, err
		}

		if existing != nil {
			return existing, nil, nil
		}

		// 5. Status validation on both sides.
		if err := fromAccount.ValidateDebitSide(); err != nil {
			audit := uc.failedTransfer(input.ClientID, input.IdempotencyKey,
				fromAccount.ID, toAccount.ID, input.Amount, 0, domain.FailAccountStatus)

			return nil, audit, err
		}

		if err := toAccount.ValidateCreditSide(); err != nil {
			audit := uc.failedTransfer(input.ClientID, input.IdempotencyKey,
				fromAccount.ID, toAccount.ID, input.Amount, 0, domain.FailAccountStatus)

			return nil, audit, err
		}

		// 6. Transfer fee from the source account's policy.
		fee, err := uc.calculateFee(ctx, fromAccount, input.Amount, domain.FeeTransfer)
		if err != nil {
			return nil, nil, err
		}

		totalDebit := input.Amount + fee

		// 7. Balance sufficiency under the held row lock.
		balance, err := uc.snapshotRepo.GetTx(ctx, tx, fromAccount.ID)
		if err != nil {
			return nil, nil, err
		}

		if balance < totalDebit {
			audit := uc.failedTransfer(input.ClientID, input.IdempotencyKey,
				fromAccount.ID, toAccount.ID, input.Amount, fee, domain.FailInsufficientBalance)

			return nil, audit, domain.ErrInsufficientBalance
		}

		// 8. PENDING transfer row.
		transfer := uc.pendingTransfer(input.ClientID, input.IdempotencyKey,
			fromAccount.ID, toAccount.ID, input.Amount, fee, input.Memo)

		if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
			return nil, nil, err
		}

		// 9. Debit source for amount+fee, credit target for amount, credit
		// fee revenue for fee.
		now := transfer.RequestedAt
		entries := []domain.LedgerEntry{
			domain.NewLedgerEntry(transfer.ID, fromAccount.ID, -totalDebit, uc.cfg.Currency, now),
			domain.NewLedgerEntry(transfer.ID, toAccount.ID, input.Amount, uc.cfg.Currency, now),
		}
		if fee > 0 {
			entries = append(entries,
				domain.NewLedgerEntry(transfer.ID, uc.cfg.FeeAccountID, fee, uc.cfg.Currency, now))
		}

		if err := uc.post(ctx, tx, transfer, entries); err != nil {
			return nil, nil, err
		}

		return transfer, nil, nil
	}, input.ClientID, input.IdempotencyKey, source.ID, target.ID, input.Amount)
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListTransfersByAccount lists transfers touching an account.
func (uc *TransferUseCase) ListTransfersByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transfer, error) {
	if limit <= 0 {
		limit = 20
	}

	if limit > 100 {
		limit = 100
	}

	return uc.transferRepo.ListByAccount(ctx, accountID, limit, offset)
}

// unitOfWork runs inside one transaction. It returns the posted (or
// replayed) transfer, or an optional FAILED audit record together with the
// domain error that caused it.
type unitOfWork func(tx Transaction) (result, audit *domain.Transfer, err error)

// run executes fn as one atomic unit of work, retried on transient database
// conflicts. If fn rejects the request with an audit record, the record is
// persisted in a fresh short transaction after the aborted unit of work
// rolled back, so the FAILED history survives.
func (uc *TransferUseCase) run(ctx context.Context, fn unitOfWork, clientID, idempotencyKey string, fromAccountID, toAccountID, amount int64) (*domain.Transfer, error) {
	var result *domain.Transfer

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		res, audit, err := fn(tx)
		if err != nil {
			if uc.uniq.IsUniqueViolation(err) {
				// Lost the first-insert race for this idempotency key. The
				// winning row is committed by now; treat as a replay.
				_ = tx.Rollback(ctx)

				res, replayErr := uc.replayAfterRace(ctx, clientID, idempotencyKey, fromAccountID, toAccountID, amount)
				if replayErr != nil {
					return replayErr
				}

				result = res

				return nil
			}

			if audit != nil {
				_ = tx.Rollback(ctx)

				if auditErr := uc.saveFailedAudit(ctx, audit); auditErr != nil {
					return errors.Join(err, auditErr)
				}
			}

			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = res

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// lockPair acquires exclusive row locks on two accounts, always smallest
// identifier first, and returns the locked rows keyed by id so callers can
// re-associate them with their logical roles.
func (uc *TransferUseCase) lockPair(ctx context.Context, tx Transaction, idA, idB int64) (map[int64]*domain.Account, error) {
	first, second := idA, idB
	if second < first {
		first, second = second, first
	}

	locked := make(map[int64]*domain.Account, 2)

	a, err := uc.accountRepo.LockByID(ctx, tx, first)
	if err != nil {
		return nil, err
	}

	locked[a.ID] = a

	if first == second {
		return locked, nil
	}

	b, err := uc.accountRepo.LockByID(ctx, tx, second)
	if err != nil {
		return nil, err
	}

	locked[b.ID] = b

	return locked, nil
}

// resolveReplay returns the stored transfer for (clientID, idempotencyKey)
// if one exists, after checking the replayed parameters against it.
func (uc *TransferUseCase) resolveReplay(ctx context.Context, tx Transaction, clientID, idempotencyKey string, fromAccountID, toAccountID, amount int64) (*domain.Transfer, error) {
	if clientID == "" || idempotencyKey == "" {
		return nil, nil
	}

	existing, err := uc.transferRepo.GetByClientAndKeyTx(ctx, tx, clientID, idempotencyKey)
	if err != nil {
		if errors.Is(err, domain.ErrTransferNotFound) {
			return nil, nil
		}

		return nil, err
	}

	if err := existing.MatchesRequest(fromAccountID, toAccountID, amount); err != nil {
		return nil, err
	}

	return existing, nil
}

// replayAfterRace re-fetches the winning row after an idempotency-key
// unique violation and validates it against the losing request. A winner
// written with different parameters is a conflict, not a replay.
func (uc *TransferUseCase) replayAfterRace(ctx context.Context, clientID, idempotencyKey string, fromAccountID, toAccountID, amount int64) (*domain.Transfer, error) {
	existing, err := uc.transferRepo.GetByClientAndKey(ctx, clientID, idempotencyKey)
	if err != nil {
		return nil, err
	}

	if err := existing.MatchesRequest(fromAccountID, toAccountID, amount); err != nil {
		return nil, err
	}

	return existing, nil
}

func (uc *TransferUseCase) calculateFee(ctx context.Context, account *domain.Account, amount int64, kind domain.FeeKind) (int64, error) {
	if account.FeePolicyID == nil {
		return 0, nil
	}

	policy, err := uc.feePolicyRepo.GetByID(ctx, *account.FeePolicyID)
	if err != nil {
		return 0, err
	}

	return policy.Fee(amount, kind), nil
}

// post writes the balanced ledger entries, applies the snapshot deltas and
// finalizes the transfer, all inside tx.
func (uc *TransferUseCase) post(ctx context.Context, tx Transaction, transfer *domain.Transfer, entries []domain.LedgerEntry) error {
	if err := domain.ValidateBalanced(entries); err != nil {
		return err
	}

	for i := range entries {
		entries[i].ID = uc.idGen.Generate()
	}

	if err := uc.ledgerRepo.CreateBatch(ctx, tx, entries); err != nil {
		return err
	}

	for _, e := range entries {
		if err := uc.snapshotRepo.ApplyDelta(ctx, tx, e.AccountID, e.Amount); err != nil {
			return err
		}
	}

	postedAt := time.Now().UTC()
	if err := uc.transferRepo.UpdateStatus(ctx, tx, transfer.ID, domain.TransferPosted, &postedAt); err != nil {
		return err
	}

	transfer.Status = domain.TransferPosted
	transfer.PostedAt = &postedAt

	event := domain.TransferPostedEvent(transfer, postedAt)
	event.ID = uc.idGen.Generate()

	return uc.outboxRepo.Create(ctx, tx, event)
}

func (uc *TransferUseCase) pendingTransfer(clientID, idempotencyKey string, fromID, toID, amount, fee int64, memo string) *domain.Transfer {
	return &domain.Transfer{
		ID:             uc.idGen.Generate(),
		ClientID:       clientID,
		IdempotencyKey: idempotencyKey,
		FromAccountID:  fromID,
		ToAccountID:    toID,
		Amount:         amount,
		Fee:            fee,
		Currency:       uc.cfg.Currency,
		Status:         domain.TransferPending,
		Memo:           memo,
		RequestedAt:    time.Now().UTC(),
	}
}

func (uc *TransferUseCase) failedTransfer(clientID, idempotencyKey string, fromID, toID, amount, fee int64, code domain.FailCode) *domain.Transfer {
	return &domain.Transfer{
		ID:             uc.idGen.Generate(),
		ClientID:       clientID,
		IdempotencyKey: idempotencyKey,
		FromAccountID:  fromID,
		ToAccountID:    toID,
		Amount:         amount,
		Fee:            fee,
		Currency:       uc.cfg.Currency,
		Status:         domain.TransferFailed,
		FailCode:       &code,
		RequestedAt:    time.Now().UTC(),
	}
}

// saveFailedAudit persists a terminal FAILED record in its own transaction.
// A unique violation here means a row for the key already exists; the
// resolver will return it on the next attempt, so the write is skipped.
func (uc *TransferUseCase) saveFailedAudit(ctx context.Context, audit *domain.Transfer) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.transferRepo.Create(ctx, tx, audit); err != nil {
		if uc.uniq.IsUniqueViolation(err) {
			return nil
		}

		return err
	}

	return tx.Commit(ctx)
}
