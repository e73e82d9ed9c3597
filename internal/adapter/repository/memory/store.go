// Package memory is an in-process reference implementation of the ledger
// store. It provides the same exclusive-session-per-account-key guarantee as
// the Postgres row lock, using one mutual-exclusion primitive per account
// number, and is used by tests that need the full mutation path without a
// database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/usecase"
)

// DefaultLockWait bounds how long a mutation waits for an account's lock.
const DefaultLockWait = 3 * time.Second

// Store holds accounts and their append-only transaction logs.
type Store struct {
	mu           sync.RWMutex
	byNumber     map[string]*domain.Account
	byID         map[string]*domain.Account
	transactions map[string][]*domain.Transaction

	lockMu   sync.Mutex
	locks    map[string]chan struct{}
	lockWait time.Duration
}

// NewStore creates an empty Store with the default lock wait.
func NewStore() *Store {
	return NewStoreWithLockWait(DefaultLockWait)
}

// NewStoreWithLockWait creates an empty Store with a custom lock wait bound.
func NewStoreWithLockWait(lockWait time.Duration) *Store {
	return &Store{
		byNumber:     make(map[string]*domain.Account),
		byID:         make(map[string]*domain.Account),
		transactions: make(map[string][]*domain.Transaction),
		locks:        make(map[string]chan struct{}),
		lockWait:     lockWait,
	}
}

// sem returns the binary semaphore guarding the given account number.
func (s *Store) sem(number string) chan struct{} {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	sem, ok := s.locks[number]
	if !ok {
		sem = make(chan struct{}, 1)
		s.locks[number] = sem
	}

	return sem
}

// Begin starts a new in-memory transaction. Writes are staged and applied
// on Commit; Rollback discards them. Either way all held locks are released.
func (s *Store) Begin(ctx context.Context) (usecase.Transaction, error) {
	return &Tx{store: s}, nil
}

// Tx stages mutations until Commit.
type Tx struct {
	store    *Store
	held     []chan struct{}
	balances []balanceWrite
	appends  []*domain.Transaction
	done     bool
}

type balanceWrite struct {
	accountID string
	balance   decimal.Decimal
	updatedAt time.Time
}

// Commit applies staged writes atomically and releases held locks.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.release()

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for _, w := range t.balances {
		if acc, ok := t.store.byID[w.accountID]; ok {
			acc.Balance = w.balance
			acc.UpdatedAt = w.updatedAt
		}
	}

	for _, txn := range t.appends {
		t.store.transactions[txn.AccountID] = append(t.store.transactions[txn.AccountID], txn)
	}

	return nil
}

// Rollback discards staged writes and releases held locks. It is a no-op
// after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.balances = nil
	t.appends = nil
	t.release()
	return nil
}

func (t *Tx) release() {
	for _, sem := range t.held {
		<-sem
	}
	t.held = nil
}

// Create adds a new account.
func (s *Store) Create(ctx context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *account
	s.byNumber[account.Number] = &copied
	s.byID[account.ID] = &copied

	return nil
}

// GetByNumber returns a snapshot of the account with the given number.
func (s *Store) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.byNumber[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	snapshot := *acc

	return &snapshot, nil
}

// GetByNumberForUpdate acquires the account's exclusive lock within the
// bounded wait, then returns a snapshot guaranteed fresh as of acquisition.
// The lock is held until the transaction commits or rolls back.
func (s *Store) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, number string) (*domain.Account, error) {
	s.mu.RLock()
	_, exists := s.byNumber[number]
	s.mu.RUnlock()

	if !exists {
		return nil, domain.ErrAccountNotFound
	}

	memTx := tx.(*Tx)
	sem := s.sem(number)

	timer := time.NewTimer(s.lockWait)
	defer timer.Stop()

	select {
	case sem <- struct{}{}:
		memTx.held = append(memTx.held, sem)
	case <-timer.C:
		return nil, domain.ErrLockTimeout
	case <-ctx.Done():
		return nil, domain.ErrLockTimeout
	}

	// Re-read under the lock: another mutation may have committed while we
	// were waiting.
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.byNumber[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	snapshot := *acc

	return &snapshot, nil
}

// UpdateBalance stages a balance write in the transaction.
func (s *Store) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	memTx := tx.(*Tx)
	memTx.balances = append(memTx.balances, balanceWrite{
		accountID: id,
		balance:   balance,
		updatedAt: updatedAt,
	})

	return nil
}

// Count returns the number of accounts.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.byNumber)), nil
}

// CreateTransaction stages an append to the account's transaction log.
func (s *Store) CreateTransaction(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	memTx := tx.(*Tx)

	copied := *txn
	memTx.appends = append(memTx.appends, &copied)

	return nil
}

// ListByAccount returns the account's transactions, most recent first.
// The log is append-only, so no lock is needed beyond the store snapshot.
func (s *Store) ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := s.transactions[accountID]

	txns := make([]*domain.Transaction, len(log))
	copy(txns, log)

	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].OccurredAt.Equal(txns[j].OccurredAt) {
			return txns[i].OccurredAt.After(txns[j].OccurredAt)
		}
		return txns[i].ID > txns[j].ID
	})

	if len(txns) > limit {
		txns = txns[:limit]
	}

	return txns, nil
}

// CountByAccount returns the number of transactions for an account.
func (s *Store) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.transactions[accountID])), nil
}

// TransactionRecorder adapts the store to usecase.TransactionRepository.
type TransactionRecorder struct {
	store *Store
}

// NewTransactionRecorder creates a TransactionRecorder backed by store.
func NewTransactionRecorder(store *Store) *TransactionRecorder {
	return &TransactionRecorder{store: store}
}

func (r *TransactionRecorder) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	return r.store.CreateTransaction(ctx, tx, txn)
}

func (r *TransactionRecorder) ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Transaction, error) {
	return r.store.ListByAccount(ctx, accountID, limit)
}

func (r *TransactionRecorder) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	return r.store.CountByAccount(ctx, accountID)
}
