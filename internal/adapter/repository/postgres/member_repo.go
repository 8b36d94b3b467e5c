package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dnrdl12/remit/internal/domain"
)

const memberColumns = `member_seq, member_nm, member_phone, member_phone_hash, member_ci,
	member_ci_hash, member_di, member_di_hash, member_status, priv_consent, msg_consent, created_date`

// MemberRepository implements usecase.MemberRepository. The phone/CI/DI
// columns hold ciphertext; the hash columns hold HMAC digests for
// exact-match search.
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// Create inserts a member and returns its identifier.
func (r *MemberRepository) Create(ctx context.Context, member *domain.Member) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO member (member_nm, member_phone, member_phone_hash, member_ci, member_ci_hash,
			member_di, member_di_hash, member_status, priv_consent, msg_consent, created_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING member_seq`,
		member.Name,
		member.Phone,
		member.PhoneHash,
		member.CI,
		member.CIHash,
		member.DI,
		member.DIHash,
		member.Status.Code(),
		member.PrivConsent,
		member.MsgConsent,
		member.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetByID retrieves a member by identifier.
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM member WHERE member_seq = $1`, id)

	return scanMember(row)
}

// Update persists mutable member fields.
func (r *MemberRepository) Update(ctx context.Context, member *domain.Member) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE member
		SET member_nm = $2, member_status = $3, priv_consent = $4, msg_consent = $5
		WHERE member_seq = $1`,
		member.ID,
		member.Name,
		member.Status.Code(),
		member.PrivConsent,
		member.MsgConsent,
	)

	return err
}

// Search lists members matching filter, newest first. Name matching is a
// prefix match; phone matching is exact via the HMAC hash column.
func (r *MemberRepository) Search(ctx context.Context, filter domain.MemberSearchFilter, limit, offset int) ([]*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM member WHERE 1=1`
	args := []any{}

	if filter.Name != "" {
		args = append(args, filter.Name+"%")
		query += fmt.Sprintf(" AND member_nm LIKE $%d", len(args))
	}

	if filter.PhoneHash != "" {
		args = append(args, filter.PhoneHash)
		query += fmt.Sprintf(" AND member_phone_hash = $%d", len(args))
	}

	if filter.Status != nil {
		args = append(args, filter.Status.Code())
		query += fmt.Sprintf(" AND member_status = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY member_seq DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}

		members = append(members, member)
	}

	return members, rows.Err()
}

// ExistsByCIHash reports whether a member with the given CI hash exists.
func (r *MemberRepository) ExistsByCIHash(ctx context.Context, ciHash string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM member WHERE member_ci_hash = $1)`, ciHash).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var (
		member     domain.Member
		statusCode int
		createdAt  time.Time
	)

	err := row.Scan(
		&member.ID,
		&member.Name,
		&member.Phone,
		&member.PhoneHash,
		&member.CI,
		&member.CIHash,
		&member.DI,
		&member.DIHash,
		&statusCode,
		&member.PrivConsent,
		&member.MsgConsent,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}

		return nil, err
	}

	member.Status, err = domain.MemberStatusFromCode(statusCode)
	if err != nil {
		return nil, err
	}

	member.CreatedAt = createdAt

	return &member, nil
}
