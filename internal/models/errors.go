package models

import "errors"

// Domain errors shared across the service, storage and API layers.
// Handlers match them with errors.Is and map them to stable HTTP codes.
var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrNoHistory         = errors.New("no transactions found")

	ErrEmailTaken  = errors.New("email already exists")
	ErrMobileTaken = errors.New("mobile number already exists")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("authorization denied")

	ErrPINNotFound  = errors.New("pin not set for this account")
	ErrPINExists    = errors.New("pin is already set for this account")
	ErrPINMismatch  = errors.New("invalid pin")
	ErrEmailNoMatch = errors.New("email does not match")
)
