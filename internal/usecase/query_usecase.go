package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/infrastructure/metrics"
)

// QueryUseCase serves read-only balance and history lookups. It never takes
// the mutation lock; balance reads may be served from a short-lived cache.
type QueryUseCase struct {
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	cache           Cache
	metrics         *metrics.Metrics
}

// NewQueryUseCase creates a new QueryUseCase. cache and m may be nil.
func NewQueryUseCase(accountRepo AccountRepository, transactionRepo TransactionRepository, cache Cache, m *metrics.Metrics) *QueryUseCase {
	return &QueryUseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		cache:           cache,
		metrics:         m,
	}
}

// GetBalance returns the current balance of the account identified by number.
func (uc *QueryUseCase) GetBalance(ctx context.Context, number string) (decimal.Decimal, error) {
	if err := domain.ValidateAccountNumber(number); err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, balanceCacheKey(number)); err == nil {
			if balance, err := decimal.NewFromString(cached); err == nil {
				uc.metrics.IncCacheHit()
				return balance, nil
			}
		}
	}

	uc.metrics.IncCacheMiss()

	account, err := uc.accountRepo.GetByNumber(ctx, number)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, balanceCacheKey(number), account.Balance.String(), BalanceCacheTTL)
	}

	return account.Balance, nil
}

// GetHistoryInput represents input for a transaction history query.
type GetHistoryInput struct {
	AccountNumber string
	Limit         int
}

// GetHistory returns the account's transactions, most recent first.
func (uc *QueryUseCase) GetHistory(ctx context.Context, input GetHistoryInput) ([]*domain.Transaction, error) {
	if err := domain.ValidateAccountNumber(input.AccountNumber); err != nil {
		return nil, err
	}

	if input.Limit <= 0 {
		input.Limit = DefaultHistoryLimit
	}

	if input.Limit > MaxHistoryLimit {
		input.Limit = MaxHistoryLimit
	}

	account, err := uc.accountRepo.GetByNumber(ctx, input.AccountNumber)
	if err != nil {
		return nil, err
	}

	return uc.transactionRepo.ListByAccount(ctx, account.ID, input.Limit)
}
