package filter

import (
	"slices"
	"strings"
)

type SortField string

const (
	SortFieldName      SortField = "name"
	SortFieldPrice     SortField = "price"
	SortFieldCreatedAt SortField = "createdAt"
)

func (f SortField) Valid() bool {
	switch f {
	case SortFieldName, SortFieldPrice, SortFieldCreatedAt:
		return true
	}
	return false
}

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

func (o SortOrder) Valid() bool {
	return o == SortOrderAsc || o == SortOrderDesc
}

type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	Size2XL Size = "2XL"
	Size3XL Size = "3XL"
	Size4XL Size = "4XL"
	Size5XL Size = "5XL"
)

// AllSizes lists every size in display order.
var AllSizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, Size2XL, Size3XL, Size4XL, Size5XL}

var sizeAliases = map[string]Size{
	"XXL":    Size2XL,
	"XXXL":   Size3XL,
	"XXXXL":  Size4XL,
	"XXXXXL": Size5XL,
}

// ParseSize resolves a raw size token, accepting lower case and the XXL-style
// aliases.
func ParseSize(raw string) (Size, bool) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	for _, s := range AllSizes {
		if string(s) == token {
			return s, true
		}
	}
	if s, ok := sizeAliases[token]; ok {
		return s, true
	}
	return "", false
}

type Color string

const (
	ColorRed       Color = "Red"
	ColorBlue      Color = "Blue"
	ColorGreen     Color = "Green"
	ColorBlack     Color = "Black"
	ColorWhite     Color = "White"
	ColorYellow    Color = "Yellow"
	ColorOrange    Color = "Orange"
	ColorPurple    Color = "Purple"
	ColorGrey      Color = "Grey"
	ColorBrown     Color = "Brown"
	ColorPink      Color = "Pink"
	ColorNavy      Color = "Navy"
	ColorBeige     Color = "Beige"
	ColorMaroon    Color = "Maroon"
	ColorTeal      Color = "Teal"
	ColorOlive     Color = "Olive"
	ColorLavender  Color = "Lavender"
	ColorCoral     Color = "Coral"
	ColorTurquoise Color = "Turquoise"
	ColorIndigo    Color = "Indigo"
	ColorGold      Color = "Gold"
	ColorSilver    Color = "Silver"
	ColorKhaki     Color = "Khaki"
	ColorMint      Color = "Mint"
	ColorCharcoal  Color = "Charcoal"
	ColorMustard   Color = "Mustard"
)

// AllColors lists every named colour in display order.
var AllColors = []Color{
	ColorRed, ColorBlue, ColorGreen, ColorBlack, ColorWhite, ColorYellow,
	ColorOrange, ColorPurple, ColorGrey, ColorBrown, ColorPink, ColorNavy,
	ColorBeige, ColorMaroon, ColorTeal, ColorOlive, ColorLavender, ColorCoral,
	ColorTurquoise, ColorIndigo, ColorGold, ColorSilver, ColorKhaki, ColorMint,
	ColorCharcoal, ColorMustard,
}

// ParseColor matches a colour name case-insensitively.
func ParseColor(raw string) (Color, bool) {
	token := strings.TrimSpace(raw)
	for _, c := range AllColors {
		if strings.EqualFold(string(c), token) {
			return c, true
		}
	}
	return "", false
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r PriceRange) Valid() bool {
	return r.Min <= r.Max
}

// PriceBounds are the price extremes the catalog reported for a query.
type PriceBounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultBounds is used until the catalog has reported real bounds.
var DefaultBounds = PriceBounds{Min: 0, Max: 5000}

func (b PriceBounds) FullRange() PriceRange {
	return PriceRange{Min: b.Min, Max: b.Max}
}

// Covers reports whether r spans the whole bounds, i.e. constrains nothing.
func (b PriceBounds) Covers(r PriceRange) bool {
	return r.Min <= b.Min && r.Max >= b.Max
}

// State is the canonical description of the catalog view a shopper asked for.
// A zero State is the default, unfiltered first page.
type State struct {
	Page        int         `json:"page,omitempty"`
	SortBy      SortField   `json:"sortBy,omitempty"`
	SortOrder   SortOrder   `json:"sortOrder,omitempty"`
	CategoryIDs []string    `json:"categoryIds,omitempty"`
	BrandIDs    []string    `json:"brandIds,omitempty"`
	Sizes       []Size      `json:"sizes,omitempty"`
	Colors      []Color     `json:"colors,omitempty"`
	Price       *PriceRange `json:"priceRange,omitempty"`
	ProductIDs  []string    `json:"productIds,omitempty"`
}

// EffectivePage is the page to fetch; unset means the first page.
func (s State) EffectivePage() int {
	if s.Page < 1 {
		return 1
	}
	return s.Page
}

// Explicit reports whether the view is a fixed product selection.
func (s State) Explicit() bool {
	return len(s.ProductIDs) > 0
}

// HasSort reports whether either sort key is set.
func (s State) HasSort() bool {
	return s.SortBy != "" || s.SortOrder != ""
}

// Clone returns a deep copy so callers can mutate the result freely.
func (s State) Clone() State {
	out := s
	out.CategoryIDs = slices.Clone(s.CategoryIDs)
	out.BrandIDs = slices.Clone(s.BrandIDs)
	out.Sizes = slices.Clone(s.Sizes)
	out.Colors = slices.Clone(s.Colors)
	out.ProductIDs = slices.Clone(s.ProductIDs)
	if s.Price != nil {
		p := *s.Price
		out.Price = &p
	}
	return out
}

// Equal compares two states treating the facet lists as sets and nil and
// empty lists as the same thing. Explicit product ids keep their order.
func (s State) Equal(o State) bool {
	if s.EffectivePage() != o.EffectivePage() || s.SortBy != o.SortBy || s.SortOrder != o.SortOrder {
		return false
	}
	if !sameSet(s.CategoryIDs, o.CategoryIDs) || !sameSet(s.BrandIDs, o.BrandIDs) ||
		!sameSet(s.Sizes, o.Sizes) || !sameSet(s.Colors, o.Colors) {
		return false
	}
	if (s.Price == nil) != (o.Price == nil) {
		return false
	}
	if s.Price != nil && *s.Price != *o.Price {
		return false
	}
	return slices.Equal(s.ProductIDs, o.ProductIDs)
}

// Normalize de-duplicates the facet lists, drops invalid members and clears
// fields the explicit selection overrides.
func (s State) Normalize() State {
	out := s.Clone()
	if out.Page < 0 {
		out.Page = 0
	}
	if !out.SortBy.Valid() {
		out.SortBy = ""
	}
	if !out.SortOrder.Valid() {
		out.SortOrder = ""
	}
	out.CategoryIDs = uniqueStrings(out.CategoryIDs)
	out.BrandIDs = uniqueStrings(out.BrandIDs)
	out.Sizes, _ = toSizes(sizeTokens(out.Sizes))
	out.Colors, _ = toColors(colorTokens(out.Colors))
	if out.Price != nil && !out.Price.Valid() {
		out.Price = nil
	}
	out.ProductIDs = uniqueStrings(out.ProductIDs)
	if out.Explicit() {
		out.Page = 0
	}
	return out
}

func uniqueStrings(in []string) []string {
	return uniqueValid(in, func(v string) bool { return strings.TrimSpace(v) != "" })
}

func uniqueValid[T ~string](in []T, keep func(T) bool) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sameSet[T comparable](a, b []T) bool {
	for _, v := range a {
		if !slices.Contains(b, v) {
			return false
		}
	}
	for _, v := range b {
		if !slices.Contains(a, v) {
			return false
		}
	}
	return true
}
