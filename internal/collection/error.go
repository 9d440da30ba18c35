package collection

import "errors"

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrInvalidSlug        = errors.New("invalid collection slug")
	ErrEmptyCollection    = errors.New("collection has no products")
	ErrTitleRequired      = errors.New("collection title is required")
)
