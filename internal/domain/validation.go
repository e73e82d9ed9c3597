package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountNumber = errors.New("invalid account number")
	ErrAmountTooLarge       = errors.New("amount exceeds maximum allowed")
	ErrAmountScale          = errors.New("amount has more than two decimal places")
)

// Validation constants
const (
	MaxAccountNumberLength = 20
	MinAccountNumberLength = 1
	MaxMutationAmount      = "1000000000000" // 1 trillion
	AmountScale            = 2
)

// ValidateAmount validates a mutation amount: strictly positive, scale at
// most two decimal places, bounded above.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Truncate(AmountScale)) {
		return ErrAmountScale
	}

	maxAmount, _ := decimal.NewFromString(MaxMutationAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxMutationAmount)
	}

	return nil
}

// ValidateAccountNumber validates an external account number.
func ValidateAccountNumber(number string) error {
	number = strings.TrimSpace(number)

	if len(number) < MinAccountNumberLength {
		return fmt.Errorf("%w: number cannot be empty", ErrInvalidAccountNumber)
	}

	if len(number) > MaxAccountNumberLength {
		return fmt.Errorf("%w: number exceeds %d characters", ErrInvalidAccountNumber, MaxAccountNumberLength)
	}

	for _, r := range number {
		if (r < '0' || r > '9') && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && r != '-' {
			return fmt.Errorf("%w: contains forbidden characters", ErrInvalidAccountNumber)
		}
	}

	return nil
}
