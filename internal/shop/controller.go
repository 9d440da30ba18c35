package shop

import (
	"context"
	"net/url"
	"sync"

	"github.com/wizzzeystore/wizzzey-store-web/internal/catalog"
	"github.com/wizzzeystore/wizzzey-store-web/internal/facet"
	"github.com/wizzzeystore/wizzzey-store-web/internal/filter"
	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"go.uber.org/zap"
)

// Controller ties the URL store to the catalog. The store is the source of
// truth for the filters; every change is written back to it and, when an
// orchestrator is attached, starts a new catalog generation.
type Controller struct {
	store        Store
	orchestrator *catalog.Orchestrator
	facets       facet.Service

	mu      sync.RWMutex
	bounds  *filter.PriceBounds
	options facet.Options
}

// NewController builds a controller. orchestrator and facets may be nil for
// callers that only rewrite queries.
func NewController(store Store, orchestrator *catalog.Orchestrator, facets facet.Service) *Controller {
	return &Controller{
		store:        store,
		orchestrator: orchestrator,
		facets:       facets,
	}
}

// SetBounds seeds the price bounds used when no catalog response has
// reported any yet.
func (c *Controller) SetBounds(b *filter.PriceBounds) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b == nil {
		c.bounds = nil
		return
	}
	copied := *b
	c.bounds = &copied
	if c.orchestrator != nil && c.orchestrator.Bounds() == nil {
		c.orchestrator.SetBounds(&copied)
	}
}

// Bounds prefers what the catalog last reported over the seeded bounds.
func (c *Controller) Bounds() *filter.PriceBounds {
	if c.orchestrator != nil {
		if b := c.orchestrator.Bounds(); b != nil {
			return b
		}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.bounds == nil {
		return nil
	}
	b := *c.bounds
	return &b
}

// State decodes the filters currently in the store.
func (c *Controller) State() filter.State {
	return c.codec().Decode(c.store.Get())
}

// SetFilters merges p into the current filters and commits the result on
// the first page.
func (c *Controller) SetFilters(ctx context.Context, p Patch) filter.State {
	current := c.State()
	ed := filter.NewEditor(current, editorBounds(current, c.Bounds()))
	p.applyTo(ed)

	next := ed.Apply()
	if p.ProductIDs != nil {
		next.ProductIDs = p.ProductIDs
		next = next.Normalize()
	}

	logger.FromCtx(ctx).Debug("filters changed",
		zap.String("layer", "shop"),
		zap.Int("active", filter.ActiveFilters(next)),
	)
	return c.commit(ctx, next)
}

// SetPage moves to page n. Explicit selections are not paginated, so the
// state is returned unchanged for them.
func (c *Controller) SetPage(ctx context.Context, n int) filter.State {
	current := c.State()
	if current.Explicit() {
		return current
	}
	if n < 1 {
		n = 1
	}
	current.Page = n
	return c.commit(ctx, current)
}

// Reset removes every filter key. Keys the codec does not own are kept.
func (c *Controller) Reset(ctx context.Context) filter.State {
	current := c.State()
	ed := filter.NewEditor(current, editorBounds(current, c.Bounds()))
	return c.commit(ctx, ed.Reset())
}

// Load runs a catalog generation for the current filters. When the response
// reports price bounds that change how the stored price decodes, the catalog
// is queried once more so the items match the canonical filters.
func (c *Controller) Load(ctx context.Context) (catalog.View, error) {
	if c.orchestrator == nil {
		return catalog.View{Status: catalog.StatusIdle, Items: []catalog.Product{}}, nil
	}

	before := c.codec()
	state := before.Decode(c.store.Get())
	view, err := c.orchestrator.Load(ctx, state)
	if err != nil {
		return view, err
	}

	after := c.codec()
	next := after.Decode(c.store.Get())
	if after.EncodeQuery(next) == before.EncodeQuery(state) {
		return view, nil
	}

	logger.FromCtx(ctx).Debug("price bounds changed the query, reloading",
		zap.String("layer", "shop"),
		zap.String("loaded", before.EncodeQuery(state)),
		zap.String("canonical", after.EncodeQuery(next)),
	)
	return c.orchestrator.Load(ctx, next)
}

// LoadFacets fetches the category and brand options. Failures end up as
// notices on the view, never as errors.
func (c *Controller) LoadFacets(ctx context.Context, brandSearch, bearerToken string) {
	if c.facets == nil {
		return
	}
	opts := c.facets.Load(ctx, brandSearch, bearerToken)

	c.mu.Lock()
	c.options = opts
	c.mu.Unlock()
}

// Query is the canonical form of the store, filter keys re-encoded.
func (c *Controller) Query() string {
	return canonical(c.codec(), c.store.Get(), c.State()).Encode()
}

// View assembles what the shop page renders from the store, the latest
// catalog view and the facet options.
func (c *Controller) View() PageView {
	state := c.State()

	view := catalog.View{Status: catalog.StatusIdle, Items: []catalog.Product{}}
	if c.orchestrator != nil {
		view = c.orchestrator.Snapshot()
	}

	c.mu.RLock()
	opts := c.options
	c.mu.RUnlock()

	notices := opts.Notices
	if notices == nil {
		notices = []facet.Notice{}
	}
	available := catalog.NewAvailableFilters(opts.Categories, opts.Brands, c.Bounds())

	return PageView{
		Filters:          state,
		Query:            c.Query(),
		View:             view,
		AvailableFilters: available,
		ActiveFilters:    filter.ActiveFilters(state),
		Summary:          Summary(view),
		Title:            Title(state, available),
		Pages:            PageWindow(view),
		Notices:          notices,
	}
}

func (c *Controller) commit(ctx context.Context, s filter.State) filter.State {
	codec := c.codec()
	c.store.Set(canonical(codec, c.store.Get(), s))

	committed := c.State()
	if c.orchestrator != nil {
		c.orchestrator.Dispatch(ctx, committed)
	}
	return committed
}

func (c *Controller) codec() *filter.Codec {
	return filter.NewCodec(c.Bounds())
}

// canonical replaces the filter keys of values with the encoding of s.
func canonical(codec *filter.Codec, values url.Values, s filter.State) url.Values {
	out := make(url.Values, len(values))
	for k, vs := range values {
		out[k] = vs
	}
	for _, k := range filter.FilterKeys {
		delete(out, k)
	}
	for k, vs := range codec.Encode(s) {
		out[k] = vs
	}
	return out
}

// editorBounds widens the default bounds around a committed price when the
// catalog has not reported real bounds yet, so editing never loses it.
func editorBounds(s filter.State, known *filter.PriceBounds) *filter.PriceBounds {
	if known != nil {
		return known
	}
	b := filter.DefaultBounds
	if s.Price != nil {
		b.Min = min(b.Min, s.Price.Min)
		b.Max = max(b.Max, s.Price.Max)
	}
	return &b
}

func (p Patch) applyTo(ed *filter.Editor) {
	if p.SortBy != nil || p.SortOrder != nil {
		draft := ed.Draft()
		by, order := draft.SortBy, draft.SortOrder
		if p.SortBy != nil {
			by = *p.SortBy
		}
		if p.SortOrder != nil {
			order = *p.SortOrder
		}
		ed.SetSort(by, order)
	}
	if p.CategoryIDs != nil {
		ed.SetCategories(p.CategoryIDs)
	}
	if p.BrandIDs != nil {
		ed.SetBrands(p.BrandIDs)
	}
	if p.Sizes != nil {
		ed.SetSizes(p.Sizes)
	}
	if p.Colors != nil {
		ed.SetColors(p.Colors)
	}

	switch {
	case p.ClearPrice:
		ed.SetPrice(ed.Bounds().FullRange())
	case p.Price != nil:
		ed.SetPrice(*p.Price)
	}
	if p.MinPrice != nil {
		ed.SetMinPrice(*p.MinPrice)
	}
	if p.MaxPrice != nil {
		ed.SetMaxPrice(*p.MaxPrice)
	}
}
