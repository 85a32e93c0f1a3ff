package domain

import "errors"

var (
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("you must be logged in")
	ErrInvalidAmount      = errors.New("amount must be positive with at most two decimal places")

	ErrItemNotFound      = errors.New("item not found")
	ErrItemUnavailable   = errors.New("item is no longer available")
	ErrSelfPurchase      = errors.New("you cannot purchase your own item")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotOwner          = errors.New("you can only modify your own items")
	ErrNotFound          = errors.New("not found")
	ErrInvalidPrice      = errors.New("price must be positive with at most two decimal places")
	ErrRelist            = errors.New("sold items cannot be relisted")
)
