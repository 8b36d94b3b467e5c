package usecase

import (
	"context"
	"time"

	"github.com/dnrdl12/remit/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	// LockByID takes a blocking exclusive row lock on the account for the
	// duration of tx. Callers must acquire locks smallest id first.
	LockByID(ctx context.Context, tx Transaction, id int64) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	Search(ctx context.Context, filter domain.AccountSearchFilter, limit, offset int) ([]*domain.Account, error)
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	GetByClientAndKey(ctx context.Context, clientID, idempotencyKey string) (*domain.Transfer, error)
	GetByClientAndKeyTx(ctx context.Context, tx Transaction, clientID, idempotencyKey string) (*domain.Transfer, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.TransferStatus, postedAt *time.Time) error
	ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transfer, error)
}

// LedgerRepository defines data access for ledger entries.
type LedgerRepository interface {
	CreateBatch(ctx context.Context, tx Transaction, entries []domain.LedgerEntry) error
	GetByTransfer(ctx context.Context, transferID string) ([]*domain.LedgerEntry, error)
	GetByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.LedgerEntry, error)
	SumByAccount(ctx context.Context, accountID int64) (int64, error)
}

// SnapshotRepository defines data access for balance snapshots.
type SnapshotRepository interface {
	Init(ctx context.Context, tx Transaction, accountID int64) error
	Get(ctx context.Context, accountID int64) (int64, error)
	// GetTx reads the balance inside tx, i.e. under any row lock tx holds.
	GetTx(ctx context.Context, tx Transaction, accountID int64) (int64, error)
	ApplyDelta(ctx context.Context, tx Transaction, accountID, delta int64) error
	ListAccountIDs(ctx context.Context) ([]int64, error)
}

// FeePolicyRepository defines read access to fee policies.
type FeePolicyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.FeePolicy, error)
	List(ctx context.Context) ([]*domain.FeePolicy, error)
}

// MemberRepository defines data access for members.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Search(ctx context.Context, filter domain.MemberSearchFilter, limit, offset int) ([]*domain.Member, error)
	ExistsByCIHash(ctx context.Context, ciHash string) (bool, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries a unit of work on transient conflicts (deadlock detected,
// serialization failure). Retried attempts are safe because an aborted unit
// of work persists nothing.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// UniqueViolation reports whether err is a unique-constraint violation.
// Implemented by the postgres adapter; the engine uses it to turn an
// idempotency-key insert race into a replay.
type UniqueViolation interface {
	IsUniqueViolation(err error) bool
}

// Cache defines caching operations for read models.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore caches final HTTP responses per idempotency key so the
// transport layer can short-circuit replays before they reach the engine.
type IdempotencyStore interface {
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Cryptor encrypts and hashes member PII at rest.
type Cryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
	Hash(value string) string
}
