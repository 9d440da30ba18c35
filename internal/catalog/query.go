package catalog

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/wizzzeystore/wizzzey-store-web/internal/filter"
	"github.com/wizzzeystore/wizzzey-store-web/internal/utils"
)

// Params is one product-listing request.
type Params struct {
	Page        int
	Limit       int
	CategoryIDs []string
	BrandIDs    []string
	MinPrice    *float64
	MaxPrice    *float64
	SortBy      filter.SortField
	SortOrder   filter.SortOrder
	Sizes       []filter.Size
	Colors      []filter.Color
	ProductIDs  []string
	Random      *bool
}

// Plan is the set of calls one state needs. Metadata is nil when Display
// alone carries both the items and the counts.
type Plan struct {
	Display  Params
	Metadata *Params
}

func (p Plan) Dual() bool { return p.Metadata != nil }

// BuildPlan derives the catalog calls for s. An unfiltered, unsorted first
// page asks for a random sample to display and a second, ordinary call for
// the counts and price bounds.
func BuildPlan(s filter.State, bounds *filter.PriceBounds, limit int) Plan {
	s = s.Normalize()
	if limit <= 0 {
		limit = DefaultLimit
	}

	if s.Explicit() {
		return Plan{Display: Params{ProductIDs: s.ProductIDs}}
	}

	p := Params{
		Page:        s.EffectivePage(),
		Limit:       limit,
		CategoryIDs: s.CategoryIDs,
		BrandIDs:    s.BrandIDs,
		SortBy:      s.SortBy,
		SortOrder:   s.SortOrder,
		Sizes:       s.Sizes,
		Colors:      s.Colors,
	}
	price := filter.EffectivePrice(s.Price, bounds)
	if price != nil {
		p.MinPrice = utils.Float64Ptr(price.Min)
		p.MaxPrice = utils.Float64Ptr(price.Max)
	}

	if !randomEligible(s, price) {
		return Plan{Display: p}
	}

	display, meta := p, p
	display.Random = utils.BoolPtr(true)
	meta.Random = utils.BoolPtr(false)
	return Plan{Display: display, Metadata: &meta}
}

func randomEligible(s filter.State, price *filter.PriceRange) bool {
	return s.EffectivePage() == 1 &&
		!s.HasSort() &&
		len(s.CategoryIDs) == 0 &&
		len(s.BrandIDs) == 0 &&
		len(s.Sizes) == 0 &&
		len(s.Colors) == 0 &&
		price == nil
}

// Values renders the wire query. Explicit ids suppress every other key.
func (p Params) Values() url.Values {
	v := url.Values{}
	if len(p.ProductIDs) > 0 {
		v.Set("product_ids", jsonArray(p.ProductIDs))
		return v
	}

	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if id := scalarOrArray(p.CategoryIDs); id != "" {
		v.Set("categoryId", id)
	}
	if id := scalarOrArray(p.BrandIDs); id != "" {
		v.Set("brandId", id)
	}
	if p.MinPrice != nil {
		v.Set("minPrice", strconv.FormatFloat(*p.MinPrice, 'f', -1, 64))
	}
	if p.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatFloat(*p.MaxPrice, 'f', -1, 64))
	}
	if p.SortBy != "" {
		v.Set("sortBy", string(p.SortBy))
	}
	if p.SortOrder != "" {
		v.Set("sortOrder", string(p.SortOrder))
	}
	if len(p.Sizes) > 0 {
		sizes := make([]string, len(p.Sizes))
		for i, s := range p.Sizes {
			sizes[i] = string(s)
		}
		v.Set("size", strings.Join(sizes, ","))
	}
	if len(p.Colors) > 0 {
		colors := make([]string, len(p.Colors))
		for i, c := range p.Colors {
			colors[i] = string(c)
		}
		v.Set("color", strings.Join(colors, ","))
	}
	if p.Random != nil {
		v.Set("random", strconv.FormatBool(*p.Random))
	}
	return v
}

func scalarOrArray(ids []string) string {
	switch len(ids) {
	case 0:
		return ""
	case 1:
		return ids[0]
	default:
		return jsonArray(ids)
	}
}

func jsonArray(ids []string) string {
	b, _ := json.Marshal(ids)
	return string(b)
}
