package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/usecase"
)

// pgErrLockNotAvailable is raised when lock_timeout expires while waiting
// for a row lock.
const pgErrLockNotAvailable = "55P03"

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const createAccountSQL = `
INSERT INTO accounts (id, account_number, balance, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)`

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, createAccountSQL,
		account.ID,
		account.Number,
		decimalToNumeric(account.Balance),
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

const getAccountSQL = `
SELECT id, account_number, balance, created_at, updated_at
FROM accounts
WHERE account_number = $1`

// GetByNumber retrieves an account by its external number.
func (r *AccountRepository) GetByNumber(ctx context.Context, number string) (*domain.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, getAccountSQL, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

const getAccountForUpdateSQL = getAccountSQL + `
FOR UPDATE`

// GetByNumberForUpdate retrieves an account with an exclusive row lock held
// until tx commits or rolls back. A lock_timeout expiry surfaces as
// domain.ErrLockTimeout.
func (r *AccountRepository) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, number string) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	account, err := scanAccount(pgxTx.QueryRow(ctx, getAccountForUpdateSQL, number))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, domain.ErrAccountNotFound
		case isLockTimeout(err):
			return nil, domain.ErrLockTimeout
		case errors.Is(err, context.DeadlineExceeded):
			return nil, domain.ErrLockTimeout
		}

		return nil, err
	}

	return account, nil
}

const updateBalanceSQL = `
UPDATE accounts
SET balance = $2, updated_at = $3
WHERE id = $1`

// UpdateBalance writes the new balance and refreshes updated_at. Only valid
// inside the transaction that holds the row lock.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, updateBalanceSQL, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

// Count returns the total number of accounts.
func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&account.ID, &account.Number, &balance, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	account.Balance = numericToDecimal(balance)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}

func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrLockNotAvailable
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
