package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a monetary balance identified by an external account number.
type Account struct {
	ID        string
	Number    string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateWithdrawal checks if the account can be debited by amount.
// Withdrawing the full balance is allowed; the balance may reach exactly zero.
func (a *Account) ValidateWithdrawal(amount decimal.Decimal) error {
	if a.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDeposit returns the balance after crediting amount.
func (a *Account) ApplyDeposit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// ApplyWithdrawal returns the balance after debiting amount.
func (a *Account) ApplyWithdrawal(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}
