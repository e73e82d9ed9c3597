package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/infrastructure/metrics"
)

// LedgerUseCase applies balance mutations: it reads the current balance under
// an exclusive per-account hold, validates the requested change, writes the
// new balance and appends the transaction record in one atomic unit.
type LedgerUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	idGen           IDGenerator
	retrier         Retrier
	cache           Cache
	metrics         *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. retrier, cache and m may be
// nil; retries, balance caching and metrics are then disabled.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		idGen:           idGen,
		retrier:         retrier,
		cache:           cache,
		metrics:         m,
	}
}

// MutationResult is the outcome of a successful balance mutation.
type MutationResult struct {
	AccountNumber string
	Transaction   *domain.Transaction
	NewBalance    decimal.Decimal
}

// Deposit credits amount to the account identified by number.
func (uc *LedgerUseCase) Deposit(ctx context.Context, number string, amount decimal.Decimal) (*MutationResult, error) {
	return uc.mutate(ctx, number, domain.KindDeposit, amount)
}

// Withdraw debits amount from the account identified by number.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, number string, amount decimal.Decimal) (*MutationResult, error) {
	return uc.mutate(ctx, number, domain.KindWithdrawal, amount)
}

// Mutate applies a mutation of the given kind.
func (uc *LedgerUseCase) Mutate(ctx context.Context, number string, kind domain.TransactionKind, amount decimal.Decimal) (*MutationResult, error) {
	if kind != domain.KindDeposit && kind != domain.KindWithdrawal {
		return nil, domain.ErrInvalidTransactionKind
	}

	return uc.mutate(ctx, number, kind, amount)
}

func (uc *LedgerUseCase) mutate(ctx context.Context, number string, kind domain.TransactionKind, amount decimal.Decimal) (*MutationResult, error) {
	// Reject bad input before touching storage.
	if err := domain.ValidateAccountNumber(number); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	start := time.Now()

	var result *MutationResult

	apply := func() error {
		r, err := uc.applyMutation(ctx, number, kind, amount)
		if err != nil {
			return err
		}

		result = r

		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, apply)
	} else {
		err = apply()
	}

	if err != nil {
		uc.recordFailure(kind, err)
		return nil, err
	}

	uc.metrics.RecordMutation(string(kind), "success")
	uc.metrics.ObserveMutation(time.Since(start).Seconds(), result.Transaction.Amount.InexactFloat64())
	uc.metrics.SetBalance(number, result.NewBalance.InexactFloat64())

	// Drop any cached balance so the next read observes the commit.
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, balanceCacheKey(number))
	}

	return result, nil
}

// applyMutation runs the read-validate-write-record sequence inside a single
// storage transaction. The deferred rollback is a no-op after commit; on any
// earlier return it restores balance and history to their pre-call state.
func (uc *LedgerUseCase) applyMutation(ctx context.Context, number string, kind domain.TransactionKind, amount decimal.Decimal) (*MutationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	account, err := uc.accountRepo.GetByNumberForUpdate(ctx, tx, number)
	if err != nil {
		return nil, err
	}

	var newBalance decimal.Decimal

	switch kind {
	case domain.KindDeposit:
		newBalance = account.ApplyDeposit(amount)
	case domain.KindWithdrawal:
		if err := account.ValidateWithdrawal(amount); err != nil {
			return nil, err
		}

		newBalance = account.ApplyWithdrawal(amount)
	}

	now := time.Now().UTC()

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.ID, newBalance, now); err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:         uc.idGen.Generate(),
		AccountID:  account.ID,
		Kind:       kind,
		Amount:     amount,
		OccurredAt: now,
	}

	if err := uc.transactionRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &MutationResult{
		AccountNumber: number,
		Transaction:   txn,
		NewBalance:    newBalance,
	}, nil
}

func (uc *LedgerUseCase) recordFailure(kind domain.TransactionKind, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		uc.metrics.IncInsufficientFunds()
		uc.metrics.RecordMutation(string(kind), "insufficient_funds")
	case errors.Is(err, domain.ErrLockTimeout):
		uc.metrics.IncLockTimeout()
		uc.metrics.RecordMutation(string(kind), "lock_timeout")
	case errors.Is(err, domain.ErrAccountNotFound):
		uc.metrics.RecordMutation(string(kind), "not_found")
	default:
		uc.metrics.RecordMutation(string(kind), "error")
	}
}

func balanceCacheKey(number string) string {
	return "balance:" + number
}
