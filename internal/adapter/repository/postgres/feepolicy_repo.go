package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dnrdl12/remit/internal/domain"
)

// FeePolicyRepository implements usecase.FeePolicyRepository. Policies are
// read-only from this repository; seeding happens in migrations.
type FeePolicyRepository struct {
	pool *pgxpool.Pool
}

// NewFeePolicyRepository creates a new FeePolicyRepository.
func NewFeePolicyRepository(pool *pgxpool.Pool) *FeePolicyRepository {
	return &FeePolicyRepository{pool: pool}
}

// GetByID retrieves a fee policy.
func (r *FeePolicyRepository) GetByID(ctx context.Context, id int64) (*domain.FeePolicy, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT fee_policy_seq, policy_name, transfer_fee_rate, withdraw_fee_rate,
			event_flag, start_date, end_date
		FROM fee_policy WHERE fee_policy_seq = $1`, id)

	return scanFeePolicy(row)
}

// List lists all fee policies.
func (r *FeePolicyRepository) List(ctx context.Context) ([]*domain.FeePolicy, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT fee_policy_seq, policy_name, transfer_fee_rate, withdraw_fee_rate,
			event_flag, start_date, end_date
		FROM fee_policy ORDER BY fee_policy_seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []*domain.FeePolicy
	for rows.Next() {
		policy, err := scanFeePolicy(rows)
		if err != nil {
			return nil, err
		}

		policies = append(policies, policy)
	}

	return policies, rows.Err()
}

func scanFeePolicy(row pgx.Row) (*domain.FeePolicy, error) {
	var (
		policy                     domain.FeePolicy
		transferRate, withdrawRate pgtype.Numeric
		startAt, endAt             *time.Time
	)

	err := row.Scan(
		&policy.ID,
		&policy.Name,
		&transferRate,
		&withdrawRate,
		&policy.EventFlag,
		&startAt,
		&endAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFeePolicyNotFound
		}

		return nil, err
	}

	policy.TransferFeeRate = numericToDecimal(transferRate)
	policy.WithdrawFeeRate = numericToDecimal(withdrawRate)
	policy.EventStartAt = startAt
	policy.EventEndAt = endAt

	return &policy, nil
}

// Type conversion helpers.
func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}
