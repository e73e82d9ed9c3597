package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/adapter/repository/postgres"
	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/usecase"
	"github.com/iho/minibank/tests/testutil"
)

func newLedger(pool *testutil.TestDB) (*usecase.LedgerUseCase, *usecase.QueryUseCase) {
	accountRepo := postgres.NewAccountRepository(pool.Pool)
	transactionRepo := postgres.NewTransactionRepository(pool.Pool)
	txManager := postgres.NewTxManager(pool.Pool, "3s")
	idGen := postgres.NewULIDGenerator()

	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, transactionRepo, idGen, nil, nil, nil)
	queryUC := usecase.NewQueryUseCase(accountRepo, transactionRepo, nil, nil)

	return ledgerUC, queryUC
}

func TestDepositWithdrawHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	testDB.CreateTestAccount(ctx, "12345678", decimal.RequireFromString("1000.00"))

	ledgerUC, queryUC := newLedger(testDB)

	res, err := ledgerUC.Deposit(ctx, "12345678", decimal.RequireFromString("250.00"))
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if !res.NewBalance.Equal(decimal.RequireFromString("1250.00")) {
		t.Fatalf("expected balance 1250.00, got %s", res.NewBalance)
	}

	_, err = ledgerUC.Withdraw(ctx, "12345678", decimal.RequireFromString("2000.00"))
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// The rejected withdrawal must leave no trace
	balance, err := queryUC.GetBalance(ctx, "12345678")
	if err != nil {
		t.Fatalf("get balance failed: %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("1250.00")) {
		t.Fatalf("expected balance 1250.00 after rejected withdrawal, got %s", balance)
	}

	history, err := queryUC.GetHistory(ctx, usecase.GetHistoryInput{AccountNumber: "12345678"})
	if err != nil {
		t.Fatalf("get history failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(history))
	}
	if history[0].Kind != domain.KindDeposit {
		t.Fatalf("expected deposit record, got %s", history[0].Kind)
	}
}

func TestWithdrawToExactlyZero(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	testDB.CreateTestAccount(ctx, "11112222", decimal.RequireFromString("100.00"))

	ledgerUC, _ := newLedger(testDB)

	res, err := ledgerUC.Withdraw(ctx, "11112222", decimal.RequireFromString("100.00"))
	if err != nil {
		t.Fatalf("withdrawal to zero should succeed: %v", err)
	}
	if !res.NewBalance.IsZero() {
		t.Fatalf("expected zero balance, got %s", res.NewBalance)
	}
}

func TestDepositUnknownAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	ledgerUC, _ := newLedger(testDB)

	_, err := ledgerUC.Deposit(ctx, "99999999", decimal.RequireFromString("10.00"))
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
