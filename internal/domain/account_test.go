package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_ValidateWithdrawal(t *testing.T) {
	tests := []struct {
		name        string
		balance     decimal.Decimal
		amount      decimal.Decimal
		expectError bool
	}{
		{
			name:        "withdraw less than balance",
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(50),
			expectError: false,
		},
		{
			name:        "withdraw exact balance reaches zero",
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(100),
			expectError: false,
		},
		{
			name:        "withdraw more than balance",
			balance:     decimal.NewFromInt(100),
			amount:      decimal.NewFromInt(150),
			expectError: true,
		},
		{
			name:        "withdraw one cent over balance",
			balance:     decimal.RequireFromString("100.00"),
			amount:      decimal.RequireFromString("100.01"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Balance: tt.balance}

			err := acc.ValidateWithdrawal(tt.amount)

			if tt.expectError && !errors.Is(err, ErrInsufficientFunds) {
				t.Errorf("expected ErrInsufficientFunds, got %v", err)
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccount_Apply(t *testing.T) {
	acc := &Account{Balance: decimal.RequireFromString("1000.00")}

	deposited := acc.ApplyDeposit(decimal.RequireFromString("250.00"))
	if !deposited.Equal(decimal.RequireFromString("1250.00")) {
		t.Errorf("expected 1250.00, got %s", deposited)
	}

	withdrawn := acc.ApplyWithdrawal(decimal.RequireFromString("0.01"))
	if !withdrawn.Equal(decimal.RequireFromString("999.99")) {
		t.Errorf("expected 999.99, got %s", withdrawn)
	}
}
