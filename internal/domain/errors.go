package domain

import "errors"

// Counter errors
var (
	ErrInvalidOperationType = errors.New("invalid operation type")
	ErrZeroButtonAmount     = errors.New("button amount must be non-zero")
	ErrButtonNotFound       = errors.New("button not found")
	ErrCountOverflow        = errors.New("counter value out of range")
)

// User errors
var (
	ErrInvalidUsername  = errors.New("username must be at least 3 characters long")
	ErrInvalidEmail     = errors.New("please provide a valid email")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes long")
	ErrInvalidIncrement = errors.New("default increment amount must be non-zero")
	ErrInvalidRetention = errors.New("history retention days must be positive")
)
