package collection

import "time"

// Collection is a curated product selection behind a marketing link.
type Collection struct {
	ID         int64     `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	ProductIDs []string  `json:"productIds"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SaveInput creates or replaces a collection. An empty Slug is derived from
// the title.
type SaveInput struct {
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	ProductIDs []string `json:"productIds"`
	Active     *bool    `json:"active,omitempty"`
}
