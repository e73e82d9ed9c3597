package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/usecase"
)

// BalanceResponse represents an account balance in API responses.
type BalanceResponse struct {
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
}

// TransactionResponse represents a transaction record in API responses.
type TransactionResponse struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:         t.ID,
		Kind:       string(t.Kind),
		Amount:     t.Amount,
		OccurredAt: t.OccurredAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// MutationResponse represents the outcome of a deposit or withdrawal.
type MutationResponse struct {
	AccountNumber string               `json:"account_number"`
	Transaction   *TransactionResponse `json:"transaction"`
	NewBalance    decimal.Decimal      `json:"new_balance"`
}

// MutationFromResult converts a use case mutation result to a response.
func MutationFromResult(res *usecase.MutationResult) *MutationResponse {
	return &MutationResponse{
		AccountNumber: res.AccountNumber,
		Transaction:   TransactionFromDomain(res.Transaction),
		NewBalance:    res.NewBalance,
	}
}

// StatusResponse represents the service status.
type StatusResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
