package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditor_Sync(t *testing.T) {
	bounds := PriceBounds{Min: 0, Max: 5000}

	t.Run("seeds from upstream", func(t *testing.T) {
		e := NewEditor(State{CategoryIDs: []string{"c1"}, Price: &PriceRange{Min: 100, Max: 900}}, &bounds)

		assert.Equal(t, []string{"c1"}, e.Draft().CategoryIDs)
		assert.Equal(t, PriceRange{Min: 100, Max: 900}, e.Price())
	})

	t.Run("local edits survive an unchanged upstream", func(t *testing.T) {
		upstream := State{CategoryIDs: []string{"c1"}}
		e := NewEditor(upstream, &bounds)
		e.ToggleSize(SizeM)

		assert.False(t, e.Sync(State{CategoryIDs: []string{"c1"}, Page: 1}))
		assert.Equal(t, []Size{SizeM}, e.Draft().Sizes)
	})

	t.Run("external navigation reseeds", func(t *testing.T) {
		e := NewEditor(State{CategoryIDs: []string{"c1"}}, &bounds)
		e.ToggleSize(SizeM)

		assert.True(t, e.Sync(State{CategoryIDs: []string{"c2"}}))
		assert.Nil(t, e.Draft().Sizes)
		assert.Equal(t, []string{"c2"}, e.Draft().CategoryIDs)
		assert.Equal(t, bounds.FullRange(), e.Price())
	})

	t.Run("nil bounds use defaults", func(t *testing.T) {
		e := NewEditor(State{}, nil)
		assert.Equal(t, DefaultBounds, e.Bounds())
	})
}

func TestEditor_PriceHandles(t *testing.T) {
	bounds := PriceBounds{Min: 0, Max: 1000}

	t.Run("raising min past max drags max", func(t *testing.T) {
		e := NewEditor(State{Price: &PriceRange{Min: 100, Max: 300}}, &bounds)
		e.SetMinPrice(500)
		assert.Equal(t, PriceRange{Min: 500, Max: 500}, e.Price())
	})

	t.Run("lowering max past min drags min", func(t *testing.T) {
		e := NewEditor(State{Price: &PriceRange{Min: 400, Max: 600}}, &bounds)
		e.SetMaxPrice(200)
		assert.Equal(t, PriceRange{Min: 200, Max: 200}, e.Price())
	})

	t.Run("handles clamp to bounds", func(t *testing.T) {
		e := NewEditor(State{}, &bounds)
		e.SetMinPrice(-50)
		e.SetMaxPrice(5000)
		assert.Equal(t, PriceRange{Min: 0, Max: 1000}, e.Price())
		assert.Nil(t, e.Draft().Price)
	})

	t.Run("SetPrice swaps inverted pair", func(t *testing.T) {
		e := NewEditor(State{}, &bounds)
		e.SetPrice(PriceRange{Min: 700, Max: 300})
		assert.Equal(t, PriceRange{Min: 300, Max: 700}, e.Price())
	})

	t.Run("SetBounds re-clamps", func(t *testing.T) {
		e := NewEditor(State{Price: &PriceRange{Min: 100, Max: 900}}, &bounds)

		e.SetBounds(PriceBounds{Min: 200, Max: 800})
		assert.Equal(t, PriceRange{Min: 200, Max: 800}, e.Price())

		e.SetBounds(PriceBounds{Min: 900, Max: 2000})
		assert.Equal(t, PriceRange{Min: 900, Max: 2000}, e.Price())

		e.SetBounds(PriceBounds{Min: 10, Max: 1})
		assert.Equal(t, PriceBounds{Min: 900, Max: 2000}, e.Bounds())
	})
}

func TestEditor_Apply(t *testing.T) {
	bounds := PriceBounds{Min: 0, Max: 5000}

	t.Run("commits draft on first page", func(t *testing.T) {
		e := NewEditor(State{Page: 4}, &bounds)
		e.ToggleCategory("c1")
		e.ToggleBrand("b1")
		e.ToggleColor(ColorRed)
		e.SetSort(SortFieldPrice, SortOrderAsc)
		e.SetMaxPrice(1200)

		got := e.Apply()

		assert.Equal(t, State{
			Page:        1,
			SortBy:      SortFieldPrice,
			SortOrder:   SortOrderAsc,
			CategoryIDs: []string{"c1"},
			BrandIDs:    []string{"b1"},
			Colors:      []Color{ColorRed},
			Price:       &PriceRange{Min: 0, Max: 1200},
		}, got)
	})

	t.Run("full range price left out", func(t *testing.T) {
		e := NewEditor(State{}, &bounds)
		e.SetMinPrice(100)
		e.SetMinPrice(0)

		assert.Nil(t, e.Apply().Price)
	})

	t.Run("commit does not reseed draft", func(t *testing.T) {
		e := NewEditor(State{}, &bounds)
		e.ToggleSize(SizeL)
		committed := e.Apply()

		assert.False(t, e.Sync(committed))
		assert.Equal(t, []Size{SizeL}, e.Draft().Sizes)
	})

	t.Run("toggle twice removes", func(t *testing.T) {
		e := NewEditor(State{}, &bounds)
		e.ToggleCategory("c1")
		e.ToggleCategory("c1")
		e.ToggleSize("7XL")

		got := e.Apply()
		assert.Nil(t, got.CategoryIDs)
		assert.Nil(t, got.Sizes)
	})

	t.Run("ActiveCount", func(t *testing.T) {
		e := NewEditor(State{}, &bounds)
		assert.Equal(t, 0, e.ActiveCount())

		e.ToggleCategory("c1")
		e.ToggleCategory("c2")
		e.SetMaxPrice(100)
		e.SetSort(SortFieldName, SortOrderAsc)
		assert.Equal(t, 2, e.ActiveCount())
	})
}

func TestEditor_Reset(t *testing.T) {
	bounds := PriceBounds{Min: 0, Max: 5000}
	e := NewEditor(State{
		CategoryIDs: []string{"c1"},
		Sizes:       []Size{SizeS},
		Price:       &PriceRange{Min: 10, Max: 20},
	}, &bounds)

	got := e.Reset()

	assert.Equal(t, State{}, got)
	assert.Equal(t, State{}, e.Draft())
	assert.Equal(t, bounds.FullRange(), e.Price())
	assert.False(t, e.Sync(State{}))
}
