package catalog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/wizzzeystore/wizzzey-store-web/internal/filter"
)

const placeholderImage = "https://placehold.co/600x800.png?text="

type apiMedia struct {
	URL  string `json:"url"`
	Type string `json:"type"`
	Alt  string `json:"alt"`
}

type apiProduct struct {
	MongoID            string         `json:"_id"`
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	Price              float64        `json:"price"`
	CompareAtPrice     *float64       `json:"compareAtPrice"`
	DiscountPercentage *float64       `json:"discountPercentage"`
	ImageURL           string         `json:"imageUrl"`
	Media              []apiMedia     `json:"media"`
	BrandID            string         `json:"brandId"`
	Stock              int            `json:"stock"`
	CategoryID         string         `json:"categoryId"`
	CategoryName       string         `json:"categoryName"`
	Colors             []ProductColor `json:"colors"`
	AvailableSizes     []string       `json:"availableSizes"`
	Ratings            *Rating        `json:"ratings"`
	Status             string         `json:"status"`
	IsFeatured         bool           `json:"isFeatured"`
	Tags               []string       `json:"tags"`
	Slug               string         `json:"slug"`
	SKU                string         `json:"sku"`
	CreatedAt          string         `json:"createdAt"`
	UpdatedAt          string         `json:"updatedAt"`
}

type apiAvailable struct {
	Available struct {
		MinPrice *float64 `json:"minPrice"`
		MaxPrice *float64 `json:"maxPrice"`
	} `json:"available"`
}

// listResponse accepts both the normalized listing shape and the storefront
// API envelope, including its explicit-selection variant.
type listResponse struct {
	Type    string `json:"type"`
	Message any    `json:"message"`
	Error   any    `json:"error"`

	Items      []apiProduct  `json:"items"`
	Pagination *Pagination   `json:"pagination"`
	Filters    *apiAvailable `json:"filters"`

	Data *struct {
		Products     []apiProduct `json:"products"`
		RequestedIDs []string     `json:"requestedIds"`
		FoundIDs     []string     `json:"foundIds"`
		MissingIDs   []string     `json:"missingIds"`
	} `json:"data"`
	Meta *struct {
		Pagination
		Filters *apiAvailable `json:"filters"`
	} `json:"meta"`
}

// decodePage maps a 2xx listing body. A body flagged as an error is an
// *APIError even though the status was successful.
func decodePage(endpoint string, status int, body []byte, assetBase string) (*Page, error) {
	var raw listResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if strings.EqualFold(raw.Type, "ERROR") {
		msg := firstText(raw.Message, raw.Error)
		if msg == "" {
			msg = "Failed to fetch products"
		}
		return nil, &APIError{Endpoint: endpoint, Status: status, Message: msg}
	}

	switch {
	case raw.Data != nil && raw.Data.RequestedIDs != nil:
		items := mapProducts(raw.Data.Products, assetBase)
		return &Page{
			Items: items,
			Pagination: Pagination{
				Total:      len(items),
				Page:       1,
				Limit:      len(items),
				TotalPages: 1,
			},
			Explicit:   true,
			MissingIDs: raw.Data.MissingIDs,
		}, nil

	case raw.Data != nil && raw.Data.Products != nil:
		page := &Page{Items: mapProducts(raw.Data.Products, assetBase)}
		if raw.Meta != nil {
			page.Pagination = raw.Meta.Pagination
			page.PriceBounds = observedBounds(raw.Meta.Filters)
		}
		return page, nil

	case raw.Items != nil || raw.Pagination != nil:
		page := &Page{Items: mapProducts(raw.Items, assetBase)}
		if raw.Pagination != nil {
			page.Pagination = *raw.Pagination
		}
		page.PriceBounds = observedBounds(raw.Filters)
		return page, nil
	}

	return nil, fmt.Errorf("%w: no product list in body", ErrMalformedResponse)
}

func observedBounds(f *apiAvailable) *filter.PriceBounds {
	if f == nil || f.Available.MinPrice == nil || f.Available.MaxPrice == nil {
		return nil
	}
	b := filter.PriceBounds{Min: *f.Available.MinPrice, Max: *f.Available.MaxPrice}
	if b.Min > b.Max {
		return nil
	}
	return &b
}

func mapProducts(in []apiProduct, assetBase string) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		out = append(out, mapProduct(p, assetBase))
	}
	return out
}

func mapProduct(p apiProduct, assetBase string) Product {
	id := p.ID
	if id == "" {
		id = p.MongoID
	}

	images := make([]string, 0, len(p.Media))
	for _, m := range p.Media {
		if m.URL != "" {
			images = append(images, assetBase+"/"+m.URL)
		}
	}
	if len(images) == 0 {
		images = append(images, placeholderImage+strings.ReplaceAll(url.QueryEscape(p.Name), "+", "%20"))
	}

	return Product{
		ID:                 id,
		Name:               p.Name,
		Description:        p.Description,
		Price:              p.Price,
		CompareAtPrice:     p.CompareAtPrice,
		DiscountPercentage: p.DiscountPercentage,
		CategoryID:         p.CategoryID,
		CategoryName:       p.CategoryName,
		BrandID:            p.BrandID,
		Images:             images,
		ImageURL:           p.ImageURL,
		InStock:            p.Stock > 0,
		Stock:              p.Stock,
		Colors:             p.Colors,
		AvailableSizes:     p.AvailableSizes,
		Ratings:            p.Ratings,
		Status:             p.Status,
		IsFeatured:         p.IsFeatured,
		Tags:               p.Tags,
		Slug:               p.Slug,
		SKU:                p.SKU,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// ResolveAssetURL makes a relative asset path absolute against the API base.
// Absolute and data URLs are returned unchanged.
func ResolveAssetURL(assetBase, path string) string {
	if path == "" || strings.HasPrefix(path, "http") || strings.HasPrefix(path, "data:") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return assetBase + path
}
