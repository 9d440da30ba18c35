package catalog

import "github.com/wizzzeystore/wizzzey-store-web/internal/filter"

// DefaultLimit is the number of products per listing page.
const DefaultLimit = 9

type ProductColor struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Product is the listing summary of one catalog item.
type Product struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	Price              float64        `json:"price"`
	CompareAtPrice     *float64       `json:"compareAtPrice,omitempty"`
	DiscountPercentage *float64       `json:"discountPercentage,omitempty"`
	CategoryID         string         `json:"categoryId"`
	CategoryName       string         `json:"categoryName,omitempty"`
	BrandID            string         `json:"brandId,omitempty"`
	Images             []string       `json:"images"`
	ImageURL           string         `json:"imageUrl,omitempty"`
	InStock            bool           `json:"inStock"`
	Stock              int            `json:"stock"`
	Colors             []ProductColor `json:"colors,omitempty"`
	AvailableSizes     []string       `json:"availableSizes,omitempty"`
	Ratings            *Rating        `json:"ratings,omitempty"`
	Status             string         `json:"status,omitempty"`
	IsFeatured         bool           `json:"isFeatured,omitempty"`
	Tags               []string       `json:"tags,omitempty"`
	Slug               string         `json:"slug,omitempty"`
	SKU                string         `json:"sku,omitempty"`
	CreatedAt          string         `json:"createdAt,omitempty"`
	UpdatedAt          string         `json:"updatedAt,omitempty"`
}

type Pagination struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Page is the result of one catalog query.
type Page struct {
	Items       []Product           `json:"items"`
	Pagination  Pagination          `json:"pagination"`
	PriceBounds *filter.PriceBounds `json:"priceBounds,omitempty"`
	Explicit    bool                `json:"explicit,omitempty"`
	MissingIDs  []string            `json:"missingIds,omitempty"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AvailableFilters are the options the filter controls offer.
type AvailableFilters struct {
	Categories []Category         `json:"categories"`
	Brands     []Brand            `json:"brands"`
	Sizes      []filter.Size      `json:"sizes"`
	Colors     []filter.Color     `json:"colors"`
	Price      filter.PriceBounds `json:"priceRange"`
}

// NewAvailableFilters combines the facet lists with the latest observed
// bounds. Nil bounds fall back to filter.DefaultBounds.
func NewAvailableFilters(categories []Category, brands []Brand, bounds *filter.PriceBounds) AvailableFilters {
	af := AvailableFilters{
		Categories: categories,
		Brands:     brands,
		Sizes:      filter.AllSizes,
		Colors:     filter.AllColors,
		Price:      filter.DefaultBounds,
	}
	if af.Categories == nil {
		af.Categories = []Category{}
	}
	if af.Brands == nil {
		af.Brands = []Brand{}
	}
	if bounds != nil {
		af.Price = *bounds
	}
	return af
}

// CategoryName looks up a category by id.
func (af AvailableFilters) CategoryName(id string) (string, bool) {
	for _, c := range af.Categories {
		if c.ID == id {
			return c.Name, true
		}
	}
	return "", false
}
