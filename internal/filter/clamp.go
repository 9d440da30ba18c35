package filter

import "math"

// ClampPrice fits r into the observed bounds. A range that ends up inverted
// after clamping is dropped, which means "full range".
func ClampPrice(r *PriceRange, b PriceBounds) *PriceRange {
	if r == nil {
		return nil
	}
	clamped := PriceRange{
		Min: math.Max(b.Min, r.Min),
		Max: math.Min(b.Max, r.Max),
	}
	if clamped.Min > clamped.Max {
		return nil
	}
	return &clamped
}

// EffectivePrice returns the constraint a range actually imposes: nil when
// it is absent, collapses, or covers the whole bounds. Unknown bounds leave r
// untouched.
func EffectivePrice(r *PriceRange, b *PriceBounds) *PriceRange {
	if r == nil {
		return nil
	}
	if b == nil {
		if !r.Valid() {
			return nil
		}
		out := *r
		return &out
	}
	clamped := ClampPrice(r, *b)
	if clamped == nil || b.Covers(*clamped) {
		return nil
	}
	return clamped
}
