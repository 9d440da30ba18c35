package filter

import "slices"

// Editor holds the shopper's uncommitted draft. It is reseeded from the
// committed state only when that state changes from outside, so local edits
// survive until Apply or Reset. An Editor is not safe for concurrent use.
type Editor struct {
	bounds   PriceBounds
	draft    State
	price    PriceRange
	upstream *State
}

// NewEditor starts a draft from upstream. Nil bounds fall back to
// DefaultBounds.
func NewEditor(upstream State, bounds *PriceBounds) *Editor {
	e := &Editor{bounds: DefaultBounds}
	if bounds != nil {
		e.bounds = *bounds
	}
	e.Sync(upstream)
	return e
}

// Sync reseeds the draft when upstream differs from the last state seen.
// It reports whether the draft was replaced.
func (e *Editor) Sync(upstream State) bool {
	upstream = upstream.Normalize()
	if e.upstream != nil && e.upstream.Equal(upstream) {
		return false
	}
	seen := upstream.Clone()
	e.upstream = &seen
	e.draft = upstream.Clone()
	e.draft.Price = nil
	e.price = e.bounds.FullRange()
	if clamped := ClampPrice(upstream.Price, e.bounds); clamped != nil {
		e.price = *clamped
	}
	return true
}

// Draft returns a copy of the working state, price included when it
// constrains anything.
func (e *Editor) Draft() State {
	out := e.draft.Clone()
	out.Price = EffectivePrice(&e.price, &e.bounds)
	return out
}

// Price is the slider position, always within bounds.
func (e *Editor) Price() PriceRange { return e.price }

func (e *Editor) Bounds() PriceBounds { return e.bounds }

// SetBounds adopts newly observed bounds and re-clamps the draft price. A
// price that no longer fits collapses to the full range.
func (e *Editor) SetBounds(b PriceBounds) {
	if b.Min > b.Max {
		return
	}
	e.bounds = b
	if clamped := ClampPrice(&e.price, b); clamped != nil {
		e.price = *clamped
		return
	}
	e.price = b.FullRange()
}

// SetMinPrice moves the lower handle. Raising it past max drags max along.
func (e *Editor) SetMinPrice(v float64) {
	v = clampValue(v, e.bounds)
	e.price.Min = v
	if v > e.price.Max {
		e.price.Max = v
	}
}

// SetMaxPrice moves the upper handle. Lowering it past min drags min along.
func (e *Editor) SetMaxPrice(v float64) {
	v = clampValue(v, e.bounds)
	e.price.Max = v
	if v < e.price.Min {
		e.price.Min = v
	}
}

// SetPrice sets both handles at once; an inverted pair is swapped.
func (e *Editor) SetPrice(r PriceRange) {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	e.price = PriceRange{Min: clampValue(r.Min, e.bounds), Max: clampValue(r.Max, e.bounds)}
}

func (e *Editor) ToggleCategory(id string) {
	e.draft.CategoryIDs = toggle(e.draft.CategoryIDs, id)
}

func (e *Editor) ToggleBrand(id string) {
	e.draft.BrandIDs = toggle(e.draft.BrandIDs, id)
}

func (e *Editor) ToggleSize(s Size) {
	if _, ok := ParseSize(string(s)); !ok {
		return
	}
	e.draft.Sizes = toggle(e.draft.Sizes, s)
}

func (e *Editor) ToggleColor(c Color) {
	if _, ok := ParseColor(string(c)); !ok {
		return
	}
	e.draft.Colors = toggle(e.draft.Colors, c)
}

func (e *Editor) SetCategories(ids []string) { e.draft.CategoryIDs = uniqueStrings(ids) }

func (e *Editor) SetBrands(ids []string) { e.draft.BrandIDs = uniqueStrings(ids) }

func (e *Editor) SetSizes(sizes []Size) {
	e.draft.Sizes, _ = toSizes(sizeTokens(sizes))
}

func (e *Editor) SetColors(colors []Color) {
	e.draft.Colors, _ = toColors(colorTokens(colors))
}

// SetSort sets both sort keys; invalid values unset them.
func (e *Editor) SetSort(by SortField, order SortOrder) {
	e.draft.SortBy, e.draft.SortOrder = "", ""
	if by.Valid() {
		e.draft.SortBy = by
	}
	if order.Valid() {
		e.draft.SortOrder = order
	}
}

// ActiveCount is the number of filter groups the draft constrains.
func (e *Editor) ActiveCount() int {
	return ActiveFilters(e.Draft())
}

// Apply commits the draft. The page always returns to the first page and a
// price covering the bounds is left out.
func (e *Editor) Apply() State {
	committed := e.Draft().Normalize()
	if !committed.Explicit() {
		committed.Page = 1
	}
	e.markCommitted(committed)
	return committed
}

// Reset clears every filter, moves the slider to the full bounds and commits
// the empty state.
func (e *Editor) Reset() State {
	e.draft = State{}
	e.price = e.bounds.FullRange()
	committed := State{}
	e.markCommitted(committed)
	return committed
}

// markCommitted records what was just committed so that the resulting
// upstream change does not reseed the draft.
func (e *Editor) markCommitted(s State) {
	c := s.Clone()
	e.upstream = &c
}

// ActiveFilters counts the constrained filter groups of s. Sort and page are
// not filters.
func ActiveFilters(s State) int {
	n := 0
	for _, active := range []bool{
		len(s.CategoryIDs) > 0,
		len(s.BrandIDs) > 0,
		len(s.Sizes) > 0,
		len(s.Colors) > 0,
		s.Price != nil,
		s.Explicit(),
	} {
		if active {
			n++
		}
	}
	return n
}

func clampValue(v float64, b PriceBounds) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

func toggle[T comparable](in []T, v T) []T {
	if i := slices.Index(in, v); i >= 0 {
		out := slices.Delete(slices.Clone(in), i, i+1)
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return append(slices.Clone(in), v)
}
