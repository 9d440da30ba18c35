package facet

import "github.com/wizzzeystore/wizzzey-store-web/internal/catalog"

// Notice is a non-fatal problem the shopper should be told about.
type Notice struct {
	Source  string `json:"source"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Options are the category and brand lists for the filter controls. A list
// that failed to load is empty and explained by a Notice.
type Options struct {
	Categories []catalog.Category `json:"categories"`
	Brands     []catalog.Brand    `json:"brands"`
	Notices    []Notice           `json:"notices,omitempty"`
}

type apiCategory struct {
	MongoID     string `json:"_id"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       *struct {
		URL          string `json:"url"`
		OriginalName string `json:"originalName"`
	} `json:"image"`
}

type categoriesResponse struct {
	Type    string `json:"type"`
	Message any    `json:"message"`
	Error   any    `json:"error"`
	Data    *struct {
		Categories []apiCategory `json:"categories"`
	} `json:"data"`
}

type apiBrand struct {
	MongoID string `json:"_id"`
	ID      string `json:"id"`
	Name    string `json:"name"`
}

type brandsResponse struct {
	Data *struct {
		Brands []apiBrand `json:"brands"`
	} `json:"data"`
}
