package services

import "errors"

var (
	// ErrForbidden means the requester lacks the admin role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidAmount means totalPrice is not a positive decimal amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrOrderNotFound means no order has the given id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrAlreadyPaid means the order was paid under another transaction.
	ErrAlreadyPaid = errors.New("order already paid")
)
