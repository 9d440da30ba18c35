package shop

import "errors"

var (
	ErrInvalidQuery = errors.New("invalid query string")
	ErrInvalidBody  = errors.New("invalid JSON payload")
	ErrInvalidPage  = errors.New("page must be a positive number")
)
