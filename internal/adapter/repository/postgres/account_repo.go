package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dnrdl12/remit/internal/domain"
	"github.com/dnrdl12/remit/internal/usecase"
)

const accountColumns = `account_seq, account_number, member_seq, account_status, account_type,
	nickname, bank_code, branch_code, fee_policy_seq, daily_transfer_limit, daily_withdraw_limit,
	created_date, closed_date`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account and returns its identifier.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var id int64
	err := pgxTx.QueryRow(ctx, `
		INSERT INTO account (account_number, member_seq, account_status, account_type,
			nickname, bank_code, branch_code, fee_policy_seq, daily_transfer_limit,
			daily_withdraw_limit, created_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING account_seq`,
		account.AccountNumber,
		account.MemberID,
		account.Status.Code(),
		account.Type.Code(),
		account.Nickname,
		account.BankCode,
		account.BranchCode,
		account.FeePolicyID,
		account.DailyTransferLimit,
		account.DailyWithdrawLimit,
		account.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetByID retrieves an account by identifier.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM account WHERE account_seq = $1`, id)

	return scanAccount(row)
}

// GetByNumber retrieves an account by account number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM account WHERE account_number = $1`, number)

	return scanAccount(row)
}

// LockByID retrieves an account with a blocking FOR UPDATE row lock. The
// lock is held until tx commits or rolls back.
func (r *AccountRepository) LockByID(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM account WHERE account_seq = $1 FOR UPDATE`, id)

	return scanAccount(row)
}

// Update persists mutable account fields.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE account
		SET nickname = $2, account_status = $3, closed_date = $4
		WHERE account_seq = $1`,
		account.ID,
		account.Nickname,
		account.Status.Code(),
		account.ClosedAt,
	)

	return err
}

// Search lists accounts matching filter, newest first.
func (r *AccountRepository) Search(ctx context.Context, filter domain.AccountSearchFilter, limit, offset int) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account WHERE 1=1`
	args := []any{}

	if filter.AccountNumber != "" {
		args = append(args, filter.AccountNumber)
		query += fmt.Sprintf(" AND account_number = $%d", len(args))
	}

	if filter.MemberID != nil {
		args = append(args, *filter.MemberID)
		query += fmt.Sprintf(" AND member_seq = $%d", len(args))
	}

	if filter.Status != nil {
		args = append(args, filter.Status.Code())
		query += fmt.Sprintf(" AND account_status = $%d", len(args))
	}

	if filter.Type != nil {
		args = append(args, filter.Type.Code())
		query += fmt.Sprintf(" AND account_type = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY account_seq DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account               domain.Account
		statusCode, typeCode  int
		feePolicyID           *int64
		createdAt             time.Time
		closedAt              *time.Time
	)

	err := row.Scan(
		&account.ID,
		&account.AccountNumber,
		&account.MemberID,
		&statusCode,
		&typeCode,
		&account.Nickname,
		&account.BankCode,
		&account.BranchCode,
		&feePolicyID,
		&account.DailyTransferLimit,
		&account.DailyWithdrawLimit,
		&createdAt,
		&closedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	// Raw status codes are validated here, at the persistence boundary.
	account.Status, err = domain.AccountStatusFromCode(statusCode)
	if err != nil {
		return nil, err
	}

	account.Type, err = domain.AccountTypeFromCode(typeCode)
	if err != nil {
		return nil, err
	}

	account.FeePolicyID = feePolicyID
	account.CreatedAt = createdAt
	account.ClosedAt = closedAt

	return &account, nil
}
