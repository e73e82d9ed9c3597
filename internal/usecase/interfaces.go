package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByNumber(ctx context.Context, number string) (*domain.Account, error)
	// GetByNumberForUpdate acquires an exclusive hold on the account row for
	// the remainder of tx. Concurrent calls for the same number serialize;
	// a bounded wait that expires surfaces domain.ErrLockTimeout.
	GetByNumberForUpdate(ctx context.Context, tx Transaction, number string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	Count(ctx context.Context) (int64, error)
}

// TransactionRepository defines data access for transaction records.
// Records are append-only: no updates, no deletes.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Transaction, error)
	CountByAccount(ctx context.Context, accountID string) (int64, error)
}

// Transaction represents an atomic storage unit: the balance write and its
// transaction record commit or roll back together.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique, monotonically sortable IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
