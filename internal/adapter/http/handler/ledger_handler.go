package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/adapter/http/dto"
	"github.com/iho/minibank/internal/usecase"
)

//go:generate mockgen -source=ledger_handler.go -destination=mocks/mock_ledger_service.go -package=mocks

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Deposit(ctx context.Context, number string, amount decimal.Decimal) (*usecase.MutationResult, error)
	Withdraw(ctx context.Context, number string, amount decimal.Decimal) (*usecase.MutationResult, error)
}

// LedgerHandler handles balance mutation HTTP requests.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Deposit credits an amount to the account.
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.ledgerUC.Deposit)
}

// Withdraw debits an amount from the account.
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.ledgerUC.Withdraw)
}

func (h *LedgerHandler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, number string, amount decimal.Decimal) (*usecase.MutationResult, error),
) {
	number := chi.URLParam(r, "number")
	if number == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	var req dto.MutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := apply(r.Context(), number, req.Amount)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to apply mutation", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.MutationFromResult(result))
}
