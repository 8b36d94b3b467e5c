package mocks

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dnrdl12/remit/internal/domain"
	"github.com/dnrdl12/remit/internal/usecase"
)

// ErrDuplicateKey is what the in-memory repositories return where postgres
// would raise a unique-constraint violation. MockUniqueViolation
// recognizes it.
var ErrDuplicateKey = errors.New("duplicate key")

// MockAccountRepository is an in-memory implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
	nextID   int64

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, account *domain.Account) (int64, error)
	GetByIDFunc     func(ctx context.Context, id int64) (*domain.Account, error)
	GetByNumberFunc func(ctx context.Context, number string) (*domain.Account, error)
	LockByIDFunc    func(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error)
	UpdateFunc      func(ctx context.Context, account *domain.Account) error
	SearchFunc      func(ctx context.Context, filter domain.AccountSearchFilter, limit, offset int) ([]*domain.Account, error)

	// LockOrder records the ids passed to LockByID, in call order.
	LockOrder []int64
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[int64]*domain.Account),
	}
}

// Put seeds an account, assigning an id when it has none.
func (m *MockAccountRepository) Put(account *domain.Account) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account.ID == 0 {
		m.nextID++
		account.ID = m.nextID
	} else if account.ID > m.nextID {
		m.nextID = account.ID
	}
	m.accounts[account.ID] = account
	return account
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) (int64, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	account.ID = m.nextID
	m.accounts[account.ID] = account
	return account.ID, nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.AccountNumber == number {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) LockByID(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Account, error) {
	m.mu.Lock()
	m.LockOrder = append(m.LockOrder, id)
	m.mu.Unlock()

	if m.LockByIDFunc != nil {
		return m.LockByIDFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) Search(ctx context.Context, filter domain.AccountSearchFilter, limit, offset int) ([]*domain.Account, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, filter, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Account
	for _, acc := range m.accounts {
		if filter.AccountNumber != "" && acc.AccountNumber != filter.AccountNumber {
			continue
		}
		if filter.MemberID != nil && acc.MemberID != *filter.MemberID {
			continue
		}
		if filter.Status != nil && acc.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && acc.Type != *filter.Type {
			continue
		}
		result = append(result, acc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// MockTransferRepository is an in-memory implementation of
// TransferRepository. It enforces the (client_id, idempotency_key) unique
// constraint the way postgres does, returning ErrDuplicateKey.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.Transfer
	byKey     map[string]string

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Transfer, error)
	GetByClientAndKeyFunc   func(ctx context.Context, clientID, idempotencyKey string) (*domain.Transfer, error)
	GetByClientAndKeyTxFunc func(ctx context.Context, tx usecase.Transaction, clientID, idempotencyKey string) (*domain.Transfer, error)
	UpdateStatusFunc        func(ctx context.Context, tx usecase.Transaction, id string, status domain.TransferStatus, postedAt *time.Time) error
	ListByAccountFunc       func(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transfer, error)
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{
		transfers: make(map[string]*domain.Transfer),
		byKey:     make(map[string]string),
	}
}

func clientKey(clientID, idempotencyKey string) string {
	return clientID + "\x00" + idempotencyKey
}

func (m *MockTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := clientKey(transfer.ClientID, transfer.IdempotencyKey)
	if _, ok := m.byKey[key]; ok {
		return ErrDuplicateKey
	}
	cp := *transfer
	m.transfers[transfer.ID] = &cp
	m.byKey[key] = transfer.ID
	return nil
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transfers[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *MockTransferRepository) GetByClientAndKey(ctx context.Context, clientID, idempotencyKey string) (*domain.Transfer, error) {
	if m.GetByClientAndKeyFunc != nil {
		return m.GetByClientAndKeyFunc(ctx, clientID, idempotencyKey)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.byKey[clientKey(clientID, idempotencyKey)]; ok {
		cp := *m.transfers[id]
		return &cp, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *MockTransferRepository) GetByClientAndKeyTx(ctx context.Context, tx usecase.Transaction, clientID, idempotencyKey string) (*domain.Transfer, error) {
	if m.GetByClientAndKeyTxFunc != nil {
		return m.GetByClientAndKeyTxFunc(ctx, tx, clientID, idempotencyKey)
	}
	return m.GetByClientAndKey(ctx, clientID, idempotencyKey)
}

func (m *MockTransferRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransferStatus, postedAt *time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, postedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transfers[id]
	if !ok {
		return domain.ErrTransferNotFound
	}
	t.Status = status
	t.PostedAt = postedAt
	return nil
}

func (m *MockTransferRepository) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.Transfer, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transfer
	for _, t := range m.transfers {
		if t.FromAccountID == accountID || t.ToAccountID == accountID {
			cp := *t
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Rows returns every stored transfer, sorted by id.
func (m *MockTransferRepository) Rows() []*domain.Transfer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transfer
	for _, t := range m.transfers {
		cp := *t
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// MockLedgerRepository is an in-memory implementation of LedgerRepository.
type MockLedgerRepository struct {
	mu      sync.RWMutex
	entries []domain.LedgerEntry

	CreateBatchFunc func(ctx context.Context, tx usecase.Transaction, entries []domain.LedgerEntry) error
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) CreateBatch(ctx context.Context, tx usecase.Transaction, entries []domain.LedgerEntry) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tx, entries)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *MockLedgerRepository) GetByTransfer(ctx context.Context, transferID string) ([]*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.LedgerEntry
	for i := range m.entries {
		if m.entries[i].TransferID == transferID {
			cp := m.entries[i]
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *MockLedgerRepository) GetByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.LedgerEntry
	for i := range m.entries {
		if m.entries[i].AccountID == accountID {
			cp := m.entries[i]
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *MockLedgerRepository) SumByAccount(ctx context.Context, accountID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for i := range m.entries {
		if m.entries[i].AccountID == accountID {
			sum += m.entries[i].Amount
		}
	}
	return sum, nil
}

// Entries returns every stored entry.
func (m *MockLedgerRepository) Entries() []domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.LedgerEntry(nil), m.entries...)
}

// MockSnapshotRepository is an in-memory implementation of
// SnapshotRepository.
type MockSnapshotRepository struct {
	mu       sync.RWMutex
	balances map[int64]int64

	GetTxFunc      func(ctx context.Context, tx usecase.Transaction, accountID int64) (int64, error)
	ApplyDeltaFunc func(ctx context.Context, tx usecase.Transaction, accountID, delta int64) error
}

func NewMockSnapshotRepository() *MockSnapshotRepository {
	return &MockSnapshotRepository{
		balances: make(map[int64]int64),
	}
}

// SetBalance seeds a balance.
func (m *MockSnapshotRepository) SetBalance(accountID, balance int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[accountID] = balance
}

func (m *MockSnapshotRepository) Init(ctx context.Context, tx usecase.Transaction, accountID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[accountID] = 0
	return nil
}

func (m *MockSnapshotRepository) Get(ctx context.Context, accountID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[accountID], nil
}

func (m *MockSnapshotRepository) GetTx(ctx context.Context, tx usecase.Transaction, accountID int64) (int64, error) {
	if m.GetTxFunc != nil {
		return m.GetTxFunc(ctx, tx, accountID)
	}
	return m.Get(ctx, accountID)
}

func (m *MockSnapshotRepository) ApplyDelta(ctx context.Context, tx usecase.Transaction, accountID, delta int64) error {
	if m.ApplyDeltaFunc != nil {
		return m.ApplyDeltaFunc(ctx, tx, accountID, delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[accountID] += delta
	return nil
}

func (m *MockSnapshotRepository) ListAccountIDs(ctx context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int64, 0, len(m.balances))
	for id := range m.balances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// MockFeePolicyRepository is an in-memory implementation of
// FeePolicyRepository.
type MockFeePolicyRepository struct {
	mu       sync.RWMutex
	policies map[int64]*domain.FeePolicy

	GetByIDFunc func(ctx context.Context, id int64) (*domain.FeePolicy, error)
}

func NewMockFeePolicyRepository() *MockFeePolicyRepository {
	return &MockFeePolicyRepository{
		policies: make(map[int64]*domain.FeePolicy),
	}
}

// Put seeds a policy.
func (m *MockFeePolicyRepository) Put(policy *domain.FeePolicy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[policy.ID] = policy
}

func (m *MockFeePolicyRepository) GetByID(ctx context.Context, id int64) (*domain.FeePolicy, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.policies[id]; ok {
		return p, nil
	}
	return nil, domain.ErrFeePolicyNotFound
}

func (m *MockFeePolicyRepository) List(ctx context.Context) ([]*domain.FeePolicy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.FeePolicy
	for _, p := range m.policies {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// MockMemberRepository is an in-memory implementation of MemberRepository.
type MockMemberRepository struct {
	mu      sync.RWMutex
	members map[int64]*domain.Member
	nextID  int64

	CreateFunc func(ctx context.Context, member *domain.Member) (int64, error)
}

func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{
		members: make(map[int64]*domain.Member),
	}
}

// Put seeds a member, assigning an id when it has none.
func (m *MockMemberRepository) Put(member *domain.Member) *domain.Member {
	m.mu.Lock()
	defer m.mu.Unlock()
	if member.ID == 0 {
		m.nextID++
		member.ID = m.nextID
	} else if member.ID > m.nextID {
		m.nextID = member.ID
	}
	m.members[member.ID] = member
	return member
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) (int64, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, member)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.members {
		if existing.CIHash == member.CIHash {
			return 0, ErrDuplicateKey
		}
	}
	m.nextID++
	member.ID = m.nextID
	m.members[member.ID] = member
	return member.ID, nil
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if member, ok := m.members[id]; ok {
		return member, nil
	}
	return nil, domain.ErrMemberNotFound
}

func (m *MockMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[member.ID]; !ok {
		return domain.ErrMemberNotFound
	}
	m.members[member.ID] = member
	return nil
}

func (m *MockMemberRepository) Search(ctx context.Context, filter domain.MemberSearchFilter, limit, offset int) ([]*domain.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Member
	for _, member := range m.members {
		if filter.Name != "" && !strings.HasPrefix(member.Name, filter.Name) {
			continue
		}
		if filter.PhoneHash != "" && member.PhoneHash != filter.PhoneHash {
			continue
		}
		if filter.Status != nil && member.Status != *filter.Status {
			continue
		}
		result = append(result, member)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *MockMemberRepository) ExistsByCIHash(ctx context.Context, ciHash string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, member := range m.members {
		if member.CIHash == ciHash {
			return true, nil
		}
	}
	return false, nil
}

// MockOutboxRepository is an in-memory implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	MarkPublishedFunc func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.OutboxEvent
	for _, e := range m.events {
		if e.PublishedAt == nil {
			result = append(result, e)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			at := publishedAt
			e.PublishedAt = &at
			return nil
		}
	}
	return errors.New("event not found")
}

// Events returns every staged event.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockTransaction is a no-op Transaction that records terminal calls.
type MockTransaction struct {
	mu         sync.Mutex
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	mu           sync.Mutex
	Transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// MockRetrier runs the operation once with no backoff.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error

	Calls int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	m.Calls++
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockUniqueViolation classifies ErrDuplicateKey as a unique violation.
type MockUniqueViolation struct{}

func (MockUniqueViolation) IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// MockIDGenerator yields deterministic sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return "id-" + strconv.Itoa(m.next)
}

// MockCache is an in-memory Cache. TTLs are recorded but never expire.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc func(ctx context.Context, key string) (string, error)
}

// ErrCacheMiss is returned for absent keys.
var ErrCacheMiss = errors.New("cache miss")

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// MockCryptor is a reversible stand-in for the AES cryptor.
type MockCryptor struct{}

func (MockCryptor) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (MockCryptor) Decrypt(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, "enc:") {
		return "", errors.New("not a mock ciphertext")
	}
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

func (MockCryptor) Hash(value string) string {
	return "hash:" + value
}
