package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. Records are
// append-only; there are no update or delete statements here.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const createTransactionSQL = `
INSERT INTO transactions (id, account_id, kind, amount, occurred_at)
VALUES ($1, $2, $3, $4, $5)`

// Create appends a transaction record inside the caller's transaction, so it
// commits or rolls back together with the balance write it accompanies.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, createTransactionSQL,
		txn.ID,
		txn.AccountID,
		string(txn.Kind),
		decimalToNumeric(txn.Amount),
		timeToPgTimestamptz(txn.OccurredAt),
	)

	return err
}

const listTransactionsSQL = `
SELECT id, account_id, kind, amount, occurred_at
FROM transactions
WHERE account_id = $1
ORDER BY occurred_at DESC, id DESC
LIMIT $2`

// ListByAccount retrieves an account's transactions, most recent first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, listTransactionsSQL, accountID, int32(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]*domain.Transaction, 0, limit)

	for rows.Next() {
		var (
			txn        domain.Transaction
			kind       string
			amount     pgtype.Numeric
			occurredAt pgtype.Timestamptz
		)

		if err := rows.Scan(&txn.ID, &txn.AccountID, &kind, &amount, &occurredAt); err != nil {
			return nil, err
		}

		txn.Kind = domain.TransactionKind(kind)
		txn.Amount = numericToDecimal(amount)
		txn.OccurredAt = occurredAt.Time

		txns = append(txns, &txn)
	}

	return txns, rows.Err()
}

// CountByAccount returns the number of transaction records for an account.
func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID string) (int64, error) {
	var count int64

	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
