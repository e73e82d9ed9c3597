package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/minibank/internal/adapter/http/dto"
	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/usecase"
)

//go:generate mockgen -source=transaction_handler.go -destination=mocks/mock_history_service.go -package=mocks

// HistoryService defines the behavior needed by TransactionHandler.
type HistoryService interface {
	GetHistory(ctx context.Context, input usecase.GetHistoryInput) ([]*domain.Transaction, error)
}

// TransactionHandler handles transaction history HTTP requests.
type TransactionHandler struct {
	queryUC HistoryService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(queryUC HistoryService) *TransactionHandler {
	return &TransactionHandler{queryUC: queryUC}
}

// ListByAccount returns the most recent transactions of an account.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	limit := parseIntQuery(r, "limit", 0)

	txns, err := h.queryUC.GetHistory(r.Context(), usecase.GetHistoryInput{
		AccountNumber: number,
		Limit:         limit,
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list transactions", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"account_number": number,
		"transactions":   dto.TransactionsFromDomain(txns),
	})
}
