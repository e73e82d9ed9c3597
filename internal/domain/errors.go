package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrLockTimeout       = errors.New("could not acquire account lock")

	// Transaction errors
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidTransactionKind = errors.New("transaction kind must be deposit or withdrawal")
)
