package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wizzzeystore/wizzzey-store-web/internal/filter"
)

const assetBase = "https://api.example.com"

func TestMapProduct(t *testing.T) {
	t.Run("media become images", func(t *testing.T) {
		p := mapProduct(apiProduct{
			MongoID: "m1",
			Name:    "Linen Shirt",
			Price:   49.9,
			Stock:   3,
			Media:   []apiMedia{{URL: "uploads/a.jpg"}, {URL: "uploads/b.jpg"}},
		}, assetBase)

		assert.Equal(t, "m1", p.ID)
		assert.True(t, p.InStock)
		assert.Equal(t, []string{
			"https://api.example.com/uploads/a.jpg",
			"https://api.example.com/uploads/b.jpg",
		}, p.Images)
	})

	t.Run("placeholder when no media", func(t *testing.T) {
		p := mapProduct(apiProduct{ID: "p1", MongoID: "m1", Name: "Wool Coat & Scarf"}, assetBase)

		assert.Equal(t, "p1", p.ID)
		assert.False(t, p.InStock)
		assert.Equal(t, []string{"https://placehold.co/600x800.png?text=Wool%20Coat%20%26%20Scarf"}, p.Images)
	})
}

func TestDecodePage(t *testing.T) {
	t.Run("storefront envelope", func(t *testing.T) {
		body := `{
			"type": "OK",
			"data": {"products": [{"_id": "m1", "name": "Tee", "price": 10, "stock": 0}]},
			"meta": {
				"total": 19, "page": 2, "limit": 9, "totalPages": 3,
				"hasNextPage": true, "hasPrevPage": true,
				"filters": {"available": {"minPrice": 5, "maxPrice": 250}}
			}
		}`

		page, err := decodePage("/api/products", 200, []byte(body), assetBase)
		require.NoError(t, err)

		require.Len(t, page.Items, 1)
		assert.Equal(t, "m1", page.Items[0].ID)
		assert.Equal(t, Pagination{Total: 19, Page: 2, Limit: 9, TotalPages: 3, HasNextPage: true, HasPrevPage: true}, page.Pagination)
		assert.Equal(t, &filter.PriceBounds{Min: 5, Max: 250}, page.PriceBounds)
		assert.False(t, page.Explicit)
	})

	t.Run("normalized shape", func(t *testing.T) {
		body := `{
			"items": [{"id": "p1", "name": "Tee"}, {"id": "p2", "name": "Cap"}],
			"pagination": {"total": 2, "page": 1, "limit": 9, "totalPages": 1},
			"filters": {"available": {"minPrice": 1}}
		}`

		page, err := decodePage("/api/products", 200, []byte(body), assetBase)
		require.NoError(t, err)

		assert.Len(t, page.Items, 2)
		assert.Equal(t, 2, page.Pagination.Total)
		assert.Nil(t, page.PriceBounds)
	})

	t.Run("explicit selection variant", func(t *testing.T) {
		body := `{
			"type": "OK",
			"data": {
				"products": [{"id": "p1", "name": "A"}, {"id": "p2", "name": "B"}],
				"requestedIds": ["p1", "p2", "p3"],
				"foundIds": ["p1", "p2"],
				"missingIds": ["p3"]
			}
		}`

		page, err := decodePage("/api/products", 200, []byte(body), assetBase)
		require.NoError(t, err)

		assert.True(t, page.Explicit)
		assert.Equal(t, Pagination{Total: 2, Page: 1, Limit: 2, TotalPages: 1}, page.Pagination)
		assert.Equal(t, []string{"p3"}, page.MissingIDs)
		assert.Nil(t, page.PriceBounds)
	})

	t.Run("error type on success status", func(t *testing.T) {
		_, err := decodePage("/api/products", 200, []byte(`{"type":"ERROR","message":"Catalog offline"}`), assetBase)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Catalog offline", apiErr.Message)
	})

	t.Run("malformed bodies", func(t *testing.T) {
		for _, body := range []string{`not json`, `{"type":"OK"}`, `[]`} {
			_, err := decodePage("/api/products", 200, []byte(body), assetBase)
			assert.True(t, errors.Is(err, ErrMalformedResponse), body)
		}
	})

	t.Run("inverted bounds ignored", func(t *testing.T) {
		body := `{"items": [], "filters": {"available": {"minPrice": 9, "maxPrice": 1}}}`
		page, err := decodePage("/api/products", 200, []byte(body), assetBase)
		require.NoError(t, err)
		assert.Nil(t, page.PriceBounds)
	})
}

func TestNewAvailableFilters(t *testing.T) {
	af := NewAvailableFilters(nil, []Brand{{ID: "b1", Name: "Acme"}}, nil)

	assert.Equal(t, []Category{}, af.Categories)
	assert.Equal(t, filter.DefaultBounds, af.Price)
	assert.Len(t, af.Sizes, 9)
	assert.Len(t, af.Colors, 26)

	af = NewAvailableFilters([]Category{{ID: "c1", Name: "Shirts"}}, nil, &filter.PriceBounds{Min: 3, Max: 30})
	name, ok := af.CategoryName("c1")
	assert.True(t, ok)
	assert.Equal(t, "Shirts", name)
	assert.Equal(t, filter.PriceBounds{Min: 3, Max: 30}, af.Price)
}

func TestResolveAssetURL(t *testing.T) {
	assert.Equal(t, "https://api.example.com/img/a.png", ResolveAssetURL(assetBase, "img/a.png"))
	assert.Equal(t, "https://api.example.com/img/a.png", ResolveAssetURL(assetBase, "/img/a.png"))
	assert.Equal(t, "https://cdn.example.com/a.png", ResolveAssetURL(assetBase, "https://cdn.example.com/a.png"))
	assert.Equal(t, "", ResolveAssetURL(assetBase, ""))
}
