package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wizzzeystore/wizzzey-store-web/internal/filter"
)

func TestBuildPlan_Random(t *testing.T) {
	t.Run("unfiltered first page samples randomly", func(t *testing.T) {
		plan := BuildPlan(filter.State{}, nil, 9)

		require.True(t, plan.Dual())
		assert.Equal(t, url.Values{
			"page":   {"1"},
			"limit":  {"9"},
			"random": {"true"},
		}, plan.Display.Values())
		assert.Equal(t, url.Values{
			"page":   {"1"},
			"limit":  {"9"},
			"random": {"false"},
		}, plan.Metadata.Values())
	})

	t.Run("full range price is not a filter", func(t *testing.T) {
		bounds := filter.PriceBounds{Min: 0, Max: 5000}
		plan := BuildPlan(filter.State{Price: &filter.PriceRange{Min: 0, Max: 5000}}, &bounds, 9)

		require.True(t, plan.Dual())
		assert.NotContains(t, plan.Display.Values(), "minPrice")
		assert.NotContains(t, plan.Metadata.Values(), "maxPrice")
	})

	bounds := filter.PriceBounds{Min: 0, Max: 5000}
	suppressed := map[string]filter.State{
		"page two":      {Page: 2},
		"sort by":       {SortBy: filter.SortFieldPrice},
		"sort order":    {SortOrder: filter.SortOrderDesc},
		"category":      {CategoryIDs: []string{"c1"}},
		"brand":         {BrandIDs: []string{"b1"}},
		"size":          {Sizes: []filter.Size{filter.SizeM}},
		"color":         {Colors: []filter.Color{filter.ColorRed}},
		"price":         {Price: &filter.PriceRange{Min: 10, Max: 100}},
		"explicit ids":  {ProductIDs: []string{"p1"}},
		"ids on page 1": {Page: 1, ProductIDs: []string{"p1"}},
	}
	for name, s := range suppressed {
		t.Run("no random with "+name, func(t *testing.T) {
			plan := BuildPlan(s, &bounds, 9)
			assert.False(t, plan.Dual())
			assert.NotContains(t, plan.Display.Values(), "random")
		})
	}
}

func TestBuildPlan_ExplicitIDs(t *testing.T) {
	s := filter.State{
		Page:        3,
		SortBy:      filter.SortFieldName,
		CategoryIDs: []string{"c1"},
		Price:       &filter.PriceRange{Min: 1, Max: 2},
		ProductIDs:  []string{"p2", "p1"},
	}

	plan := BuildPlan(s, nil, 9)

	assert.False(t, plan.Dual())
	assert.Equal(t, url.Values{"product_ids": {`["p2","p1"]`}}, plan.Display.Values())
}

func TestBuildPlan_ShopLink(t *testing.T) {
	s := filter.NewCodec(&filter.DefaultBounds).
		DecodeQuery("category=c1&category=c2&sizes=S,M&minPrice=500&maxPrice=1500&page=2")

	plan := BuildPlan(s, &filter.DefaultBounds, 9)

	require.False(t, plan.Dual())
	assert.Equal(t, url.Values{
		"page":       {"2"},
		"limit":      {"9"},
		"categoryId": {`["c1","c2"]`},
		"size":       {"S,M"},
		"minPrice":   {"500"},
		"maxPrice":   {"1500"},
	}, plan.Display.Values())
}

func TestParams_Values(t *testing.T) {
	minPrice, maxPrice := 10.5, 99.0
	p := Params{
		Page:        1,
		Limit:       12,
		CategoryIDs: []string{"c1"},
		BrandIDs:    []string{"b1", "b2"},
		MinPrice:    &minPrice,
		MaxPrice:    &maxPrice,
		SortBy:      filter.SortFieldCreatedAt,
		SortOrder:   filter.SortOrderDesc,
		Sizes:       []filter.Size{filter.SizeS, filter.Size2XL},
		Colors:      []filter.Color{filter.ColorNavy, filter.ColorGold},
	}

	assert.Equal(t, url.Values{
		"page":       {"1"},
		"limit":      {"12"},
		"categoryId": {"c1"},
		"brandId":    {`["b1","b2"]`},
		"minPrice":   {"10.5"},
		"maxPrice":   {"99"},
		"sortBy":     {"createdAt"},
		"sortOrder":  {"desc"},
		"size":       {"S,2XL"},
		"color":      {"Navy,Gold"},
	}, p.Values())
}

func TestBuildPlan_DefaultLimit(t *testing.T) {
	plan := BuildPlan(filter.State{Page: 2}, nil, 0)
	assert.Equal(t, DefaultLimit, plan.Display.Limit)
}
