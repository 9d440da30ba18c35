package facet

import "errors"

var (
	ErrCategoriesUnavailable = errors.New("failed to fetch categories")
	ErrInvalidBrandsResponse = errors.New("invalid brands response")
)
