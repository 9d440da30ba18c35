package shop

import (
	"github.com/wizzzeystore/wizzzey-store-web/internal/catalog"
	"github.com/wizzzeystore/wizzzey-store-web/internal/facet"
	"github.com/wizzzeystore/wizzzey-store-web/internal/filter"
)

// Patch is a partial filter change. Nil fields are left as they are; an
// empty, non-nil list clears that filter.
type Patch struct {
	SortBy      *filter.SortField  `json:"sortBy,omitempty"`
	SortOrder   *filter.SortOrder  `json:"sortOrder,omitempty"`
	CategoryIDs []string           `json:"categoryIds,omitempty"`
	BrandIDs    []string           `json:"brandIds,omitempty"`
	Sizes       []filter.Size      `json:"sizes,omitempty"`
	Colors      []filter.Color     `json:"colors,omitempty"`
	Price       *filter.PriceRange `json:"priceRange,omitempty"`
	MinPrice    *float64           `json:"minPrice,omitempty"`
	MaxPrice    *float64           `json:"maxPrice,omitempty"`
	ClearPrice  bool               `json:"clearPrice,omitempty"`
	ProductIDs  []string           `json:"productIds,omitempty"`
}

// PageLink is one entry of the pagination control. Ellipsis entries carry
// no number.
type PageLink struct {
	Number   int  `json:"number,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// PageView is everything the shop page renders.
type PageView struct {
	Filters          filter.State             `json:"filters"`
	Query            string                   `json:"query"`
	View             catalog.View             `json:"view"`
	AvailableFilters catalog.AvailableFilters `json:"availableFilters"`
	ActiveFilters    int                      `json:"activeFilters"`
	Summary          string                   `json:"summary"`
	Title            string                   `json:"title"`
	Pages            []PageLink               `json:"pages"`
	Notices          []facet.Notice           `json:"notices"`
}
