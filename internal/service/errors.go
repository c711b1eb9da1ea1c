package service

import "errors"

// Input errors raised by the service layer before anything reaches the
// storage contract. The stores themselves accept any non-null values.
var (
	ErrEmptyName     = errors.New("name must not be empty")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
	ErrInvalidStatus = errors.New("unknown homework status")
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
)
