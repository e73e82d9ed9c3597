package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction.
	// This prevents long-running transactions from blocking the account row.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultHistoryLimit is the page size for transaction history queries.
	DefaultHistoryLimit = 10

	// MaxHistoryLimit caps transaction history queries.
	MaxHistoryLimit = 100

	// BalanceCacheTTL is how long a cached balance may be served. Reads may
	// observe slightly stale data; mutations invalidate the key on commit.
	BalanceCacheTTL = 5 * time.Second
)
