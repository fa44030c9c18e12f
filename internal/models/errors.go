package models

import "errors"

// Domain errors. All are recoverable caller faults and leave no state
// behind; storage faults are wrapped separately and abort the in-flight
// transaction.
var (
	ErrValidation         = errors.New("invalid input")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
