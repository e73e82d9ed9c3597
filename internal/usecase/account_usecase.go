package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/infrastructure/metrics"
)

// AccountUseCase handles account provisioning. Account creation workflows are
// out of scope; the only supported path is seeding a starter account into an
// empty store.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator, m *metrics.Metrics) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// SeedIfEmpty creates an account with the given number and starting balance
// when the store holds no accounts at all. Returns the seeded account, or nil
// when the store was not empty.
func (uc *AccountUseCase) SeedIfEmpty(ctx context.Context, number string, balance decimal.Decimal) (*domain.Account, error) {
	if err := domain.ValidateAccountNumber(number); err != nil {
		return nil, err
	}

	if balance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	count, err := uc.accountRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	if count > 0 {
		return nil, nil
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		Number:    number,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsSeeded.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by its external number.
func (uc *AccountUseCase) GetAccount(ctx context.Context, number string) (*domain.Account, error) {
	return uc.accountRepo.GetByNumber(ctx, number)
}
