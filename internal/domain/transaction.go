package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the direction of a balance mutation.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

// ParseTransactionKind parses a kind string.
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch TransactionKind(s) {
	case KindDeposit:
		return KindDeposit, nil
	case KindWithdrawal:
		return KindWithdrawal, nil
	default:
		return "", ErrInvalidTransactionKind
	}
}

// Transaction is an immutable record of a single balance-affecting event.
// The amount is strictly positive; direction is carried by Kind, not sign.
type Transaction struct {
	ID         string
	AccountID  string
	Kind       TransactionKind
	Amount     decimal.Decimal
	OccurredAt time.Time
}

// SignedAmount returns the amount with direction applied, for replaying
// an account's history from zero.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}
