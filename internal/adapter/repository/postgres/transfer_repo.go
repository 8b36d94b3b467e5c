package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dnrdl12/remit/internal/domain"
	"github.com/dnrdl12/remit/internal/usecase"
)

const transferColumns = `transfer_id, client_id, idempotency_key, from_account_seq, to_account_seq,
	amount, fee, currency, status, fail_code, memo, requested_date, posted_date`

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

// Create inserts a transfer row. The (client_id, idempotency_key) unique
// constraint is the final guard against duplicated requests; violations
// surface to the engine, which treats them as replays.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transfers (transfer_id, client_id, idempotency_key, from_account_seq,
			to_account_seq, amount, fee, currency, status, fail_code, memo, requested_date, posted_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		transfer.ID,
		transfer.ClientID,
		transfer.IdempotencyKey,
		transfer.FromAccountID,
		transfer.ToAccountID,
		transfer.Amount,
		transfer.Fee,
		transfer.Currency,
		string(transfer.Status),
		failCodeValue(transfer.FailCode),
		transfer.Memo,
		transfer.RequestedAt,
		transfer.PostedAt,
	)

	return err
}

// GetByID retrieves a transfer by identifier.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE transfer_id = $1`, id)

	return scanTransfer(row)
}

// GetByClientAndKey retrieves a transfer by its idempotency pair, read
// through the pool outside any transaction.
func (r *TransferRepository) GetByClientAndKey(ctx context.Context, clientID, idempotencyKey string) (*domain.Transfer, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE client_id = $1 AND idempotency_key = $2`,
		clientID, idempotencyKey)

	return scanTransfer(row)
}

// GetByClientAndKeyTx is GetByClientAndKey inside tx, so the read sees the
// transaction's own snapshot and runs under its locks.
func (r *TransferRepository) GetByClientAndKeyTx(ctx context.Context, tx usecase.Transaction, clientID, idempotencyKey string) (*domain.Transfer, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE client_id = $1 AND idempotency_key = $2`,
		clientID, idempotencyKey)

	return scanTransfer(row)
}

// UpdateStatus finalizes a transfer's status within tx.
func (r *TransferRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransferStatus, postedAt *time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`UPDATE transfers SET status = $2, posted_date = $3 WHERE transfer_id = $1`,
		id, string(status), postedAt)

	return err
}

// ListByAccount lists transfers where the account is on either side.
func (r *TransferRepository) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transfer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transferColumns+` FROM transfers
		WHERE from_account_seq = $1 OR to_account_seq = $1
		ORDER BY requested_date DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}

		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		transfer domain.Transfer
		status   string
		failCode *string
	)

	err := row.Scan(
		&transfer.ID,
		&transfer.ClientID,
		&transfer.IdempotencyKey,
		&transfer.FromAccountID,
		&transfer.ToAccountID,
		&transfer.Amount,
		&transfer.Fee,
		&transfer.Currency,
		&status,
		&failCode,
		&transfer.Memo,
		&transfer.RequestedAt,
		&transfer.PostedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	transfer.Status = domain.TransferStatus(status)
	if failCode != nil {
		fc := domain.FailCode(*failCode)
		transfer.FailCode = &fc
	}

	return &transfer, nil
}

func failCodeValue(code *domain.FailCode) *string {
	if code == nil {
		return nil
	}

	s := string(*code)

	return &s
}
