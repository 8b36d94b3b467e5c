package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dnrdl12/remit/internal/usecase"
)

// SnapshotRepository implements usecase.SnapshotRepository on the
// balance_snapshots table, the materialized per-account running balance.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Init creates the zero-balance row for a new account within tx.
func (r *SnapshotRepository) Init(ctx context.Context, tx usecase.Transaction, accountID int64) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO balance_snapshots (account_seq, balance) VALUES ($1, 0)`, accountID)

	return err
}

// Get reads the balance outside any transaction. Missing rows read as zero.
// Reads taken this way may be stale under concurrent load; authoritative
// checks go through GetTx under the account row lock.
func (r *SnapshotRepository) Get(ctx context.Context, accountID int64) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx,
		`SELECT balance FROM balance_snapshots WHERE account_seq = $1`, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		return 0, err
	}

	return balance, nil
}

// GetTx reads the balance inside tx.
func (r *SnapshotRepository) GetTx(ctx context.Context, tx usecase.Transaction, accountID int64) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var balance int64
	err := pgxTx.QueryRow(ctx,
		`SELECT balance FROM balance_snapshots WHERE account_seq = $1`, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		return 0, err
	}

	return balance, nil
}

// ApplyDelta adds a signed delta to the balance within tx, creating the row
// at zero when absent.
func (r *SnapshotRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, accountID, delta int64) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO balance_snapshots (account_seq, balance)
		VALUES ($1, $2)
		ON CONFLICT (account_seq) DO UPDATE SET balance = balance_snapshots.balance + $2`,
		accountID, delta)

	return err
}

// ListAccountIDs returns every account with a snapshot row.
func (r *SnapshotRepository) ListAccountIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT account_seq FROM balance_snapshots ORDER BY account_seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}
