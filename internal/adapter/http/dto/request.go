package dto

import (
	"github.com/shopspring/decimal"
)

// MutationRequest represents a deposit or withdrawal request body.
type MutationRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
