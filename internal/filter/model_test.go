package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_Equal(t *testing.T) {
	a := State{
		Page:        1,
		CategoryIDs: []string{"c1", "c2"},
		Sizes:       []Size{SizeS, SizeM},
		Price:       &PriceRange{Min: 1, Max: 2},
	}

	t.Run("sets ignore order", func(t *testing.T) {
		b := State{
			CategoryIDs: []string{"c2", "c1"},
			Sizes:       []Size{SizeM, SizeS},
			Price:       &PriceRange{Min: 1, Max: 2},
		}
		assert.True(t, a.Equal(b))
	})

	t.Run("price differs", func(t *testing.T) {
		b := a.Clone()
		b.Price = nil
		assert.False(t, a.Equal(b))

		b.Price = &PriceRange{Min: 1, Max: 3}
		assert.False(t, a.Equal(b))
	})

	t.Run("explicit ids are ordered", func(t *testing.T) {
		x := State{ProductIDs: []string{"p1", "p2"}}
		y := State{ProductIDs: []string{"p2", "p1"}}
		assert.False(t, x.Equal(y))
	})
}

func TestState_Clone(t *testing.T) {
	a := State{CategoryIDs: []string{"c1"}, Price: &PriceRange{Min: 1, Max: 2}}
	b := a.Clone()
	b.CategoryIDs[0] = "x"
	b.Price.Max = 10

	assert.Equal(t, "c1", a.CategoryIDs[0])
	assert.Equal(t, 2.0, a.Price.Max)
}

func TestState_Normalize(t *testing.T) {
	s := State{
		Page:        -1,
		SortBy:      "rating",
		SortOrder:   SortOrderDesc,
		CategoryIDs: []string{"c1", "", "c1"},
		Sizes:       []Size{"xxl", SizeS, "huge"},
		Colors:      []Color{"red", ColorRed},
		Price:       &PriceRange{Min: 10, Max: 1},
	}.Normalize()

	assert.Equal(t, State{
		SortOrder:   SortOrderDesc,
		CategoryIDs: []string{"c1"},
		Sizes:       []Size{Size2XL, SizeS},
		Colors:      []Color{ColorRed},
	}, s)

	explicit := State{Page: 3, ProductIDs: []string{"p1", "p1", "p2"}}.Normalize()
	assert.Equal(t, 0, explicit.Page)
	assert.Equal(t, []string{"p1", "p2"}, explicit.ProductIDs)
}

func TestParseSize(t *testing.T) {
	for raw, want := range map[string]Size{"m": SizeM, " 2xl ": Size2XL, "XXXXXL": Size5XL} {
		got, ok := ParseSize(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got)
	}
	_, ok := ParseSize("6XL")
	assert.False(t, ok)
}

func TestClampPrice(t *testing.T) {
	b := PriceBounds{Min: 100, Max: 200}

	assert.Nil(t, ClampPrice(nil, b))
	assert.Equal(t, &PriceRange{Min: 100, Max: 200}, ClampPrice(&PriceRange{Min: 0, Max: 999}, b))
	assert.Equal(t, &PriceRange{Min: 120, Max: 180}, ClampPrice(&PriceRange{Min: 120, Max: 180}, b))
	assert.Nil(t, ClampPrice(&PriceRange{Min: 500, Max: 900}, b))
	assert.Nil(t, ClampPrice(&PriceRange{Min: 10, Max: 50}, b))
}

func TestEffectivePrice(t *testing.T) {
	b := PriceBounds{Min: 0, Max: 5000}

	assert.Nil(t, EffectivePrice(nil, &b))
	assert.Nil(t, EffectivePrice(&PriceRange{Min: 0, Max: 5000}, &b))
	assert.Nil(t, EffectivePrice(&PriceRange{Min: -10, Max: 9000}, &b))
	assert.Equal(t, &PriceRange{Min: 0, Max: 1500}, EffectivePrice(&PriceRange{Min: 0, Max: 1500}, &b))

	t.Run("unknown bounds", func(t *testing.T) {
		assert.Equal(t, &PriceRange{Min: 0, Max: 5000}, EffectivePrice(&PriceRange{Min: 0, Max: 5000}, nil))
		assert.Nil(t, EffectivePrice(&PriceRange{Min: 9, Max: 1}, nil))
	})
}
