package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dnrdl12/remit/internal/domain"
	"github.com/dnrdl12/remit/internal/usecase"
)

const entryColumns = `entry_id, transfer_id, account_seq, amount, entry_type, currency, entry_time`

// LedgerRepository implements usecase.LedgerRepository. Entries are
// append-only; there is no update or delete path.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CreateBatch inserts the entries of one transfer as a single batch
// within tx.
func (r *LedgerRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, entries []domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO ledger_entries (entry_id, transfer_id, account_seq, amount, entry_type, currency, entry_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.ID, e.TransferID, e.AccountID, e.Amount, string(e.Type), e.Currency, e.EntryAt)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	for range entries {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// GetByTransfer retrieves the entries of one transfer.
func (r *LedgerRepository) GetByTransfer(ctx context.Context, transferID string) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM ledger_entries WHERE transfer_id = $1 ORDER BY entry_id`,
		transferID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetByAccount retrieves entries touching an account, newest first.
func (r *LedgerRepository) GetByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+` FROM ledger_entries
		WHERE account_seq = $1
		ORDER BY entry_time DESC, entry_id DESC
		LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SumByAccount returns the sum of all entry amounts for an account.
func (r *LedgerRepository) SumByAccount(ctx context.Context, accountID int64) (int64, error) {
	var sum int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM ledger_entries WHERE account_seq = $1`,
		accountID).Scan(&sum)
	if err != nil {
		return 0, err
	}

	return sum, nil
}

func scanEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry
	for rows.Next() {
		var (
			entry     domain.LedgerEntry
			entryType string
		)

		err := rows.Scan(
			&entry.ID,
			&entry.TransferID,
			&entry.AccountID,
			&entry.Amount,
			&entryType,
			&entry.Currency,
			&entry.EntryAt,
		)
		if err != nil {
			return nil, err
		}

		entry.Type = domain.EntryType(entryType)
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
