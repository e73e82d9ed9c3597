package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/adapter/http/dto"
)

//go:generate mockgen -source=account_handler.go -destination=mocks/mock_query_service.go -package=mocks

// BalanceService defines the behavior needed by AccountHandler.
type BalanceService interface {
	GetBalance(ctx context.Context, number string) (decimal.Decimal, error)
}

// AccountHandler handles account read HTTP requests.
type AccountHandler struct {
	queryUC BalanceService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(queryUC BalanceService) *AccountHandler {
	return &AccountHandler{queryUC: queryUC}
}

// GetBalance returns the current balance of an account.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	balance, err := h.queryUC.GetBalance(r.Context(), number)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountNumber: number,
		Balance:       balance,
	})
}
