package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/wizzzeystore/wizzzey-store-web/internal/filter"
	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"github.com/wizzzeystore/wizzzey-store-web/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSettled Status = "settled"
	StatusFailed  Status = "failed"
)

// View is what the rest of the storefront sees of the current query.
type View struct {
	Generation  uint64              `json:"generation"`
	Status      Status              `json:"status"`
	State       filter.State        `json:"filters"`
	Items       []Product           `json:"items"`
	Pagination  Pagination          `json:"pagination"`
	PriceBounds *filter.PriceBounds `json:"priceBounds,omitempty"`
	Explicit    bool                `json:"explicit,omitempty"`
	MissingIDs  []string            `json:"missingIds,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// Empty reports a settled query that matched nothing, as opposed to a
// failure.
func (v View) Empty() bool {
	return v.Status == StatusSettled && len(v.Items) == 0
}

// Orchestrator turns filter states into catalog views. Every Load or
// Dispatch starts a new generation; only the newest generation may change
// the view, whatever order the calls finish in.
type Orchestrator struct {
	gateway Gateway
	limit   int

	generation atomic.Uint64

	mu          sync.RWMutex
	view        View
	bounds      *filter.PriceBounds
	subscribers map[int]func(View)
	nextSub     int
}

func NewOrchestrator(gateway Gateway, limit int) *Orchestrator {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Orchestrator{
		gateway:     gateway,
		limit:       limit,
		view:        View{Status: StatusIdle, Items: []Product{}},
		subscribers: make(map[int]func(View)),
	}
}

// SetBounds seeds the price bounds used before any response reported them.
func (o *Orchestrator) SetBounds(b *filter.PriceBounds) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if b == nil {
		o.bounds = nil
		return
	}
	copied := *b
	o.bounds = &copied
}

// Bounds returns the most recently observed price bounds.
func (o *Orchestrator) Bounds() *filter.PriceBounds {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.bounds == nil {
		return nil
	}
	b := *o.bounds
	return &b
}

// Snapshot returns a copy of the current view.
func (o *Orchestrator) Snapshot() View {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.view
}

// Subscribe registers fn for every view change and returns a func that
// removes it. fn runs on the goroutine that changed the view.
func (o *Orchestrator) Subscribe(fn func(View)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextSub
	o.nextSub++
	o.subscribers[id] = fn
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subscribers, id)
	}
}

// Dispatch starts a generation in the background and returns its number.
func (o *Orchestrator) Dispatch(ctx context.Context, s filter.State) uint64 {
	gen := o.begin(s)
	go func() {
		if _, err := o.run(ctx, gen, s); err != nil {
			logger.FromCtx(ctx).Debug("dispatched generation did not settle",
				zap.Uint64("generation", gen),
				zap.Error(err),
			)
		}
	}()
	return gen
}

// Load runs a generation to completion. It returns ErrStaleGeneration when a
// newer generation started meanwhile; the view is then left untouched.
func (o *Orchestrator) Load(ctx context.Context, s filter.State) (View, error) {
	gen := o.begin(s)
	return o.run(ctx, gen, s)
}

func (o *Orchestrator) begin(s filter.State) uint64 {
	gen := o.generation.Add(1)
	metrics.GenerationStarted()

	o.mu.Lock()
	o.view.Generation = gen
	o.view.Status = StatusLoading
	o.view.State = s.Normalize()
	o.view.Error = ""
	view := o.view
	subs := o.subscriberList()
	o.mu.Unlock()

	notify(subs, view)
	return gen
}

func (o *Orchestrator) run(ctx context.Context, gen uint64, s filter.State) (View, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "orchestrator"),
		zap.Uint64("generation", gen),
	)

	plan := BuildPlan(s, o.Bounds(), o.limit)
	log.Debug("generation started", zap.Bool("dual", plan.Dual()))

	display, meta, err := o.fetch(ctx, plan)

	o.mu.Lock()
	if gen != o.generation.Load() {
		o.mu.Unlock()
		metrics.GenerationFinished("stale")
		log.Debug("discarding stale generation", zap.Uint64("latest", o.generation.Load()))
		return o.Snapshot(), ErrStaleGeneration
	}

	if err != nil {
		o.view = View{
			Generation: gen,
			Status:     StatusFailed,
			State:      o.view.State,
			Items:      []Product{},
			Error:      Message(err),
		}
		view := o.view
		subs := o.subscriberList()
		o.mu.Unlock()

		metrics.GenerationFinished("failed")
		log.Error("generation failed", zap.Error(err))
		notify(subs, view)
		return view, err
	}

	if meta.PriceBounds != nil {
		b := *meta.PriceBounds
		o.bounds = &b
	}
	o.view = View{
		Generation:  gen,
		Status:      StatusSettled,
		State:       o.view.State,
		Items:       display.Items,
		Pagination:  meta.Pagination,
		PriceBounds: o.bounds,
		Explicit:    display.Explicit,
		MissingIDs:  display.MissingIDs,
	}
	if o.view.Items == nil {
		o.view.Items = []Product{}
	}
	view := o.view
	subs := o.subscriberList()
	o.mu.Unlock()

	metrics.GenerationFinished("settled")
	log.Info("generation settled",
		zap.Int("items", len(view.Items)),
		zap.Int("total", view.Pagination.Total),
	)
	notify(subs, view)
	return view, nil
}

// fetch issues the plan's calls concurrently and waits for all of them. Any
// failure fails the whole plan.
func (o *Orchestrator) fetch(ctx context.Context, plan Plan) (display, meta *Page, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := o.gateway.FetchProducts(gctx, plan.Display)
		display = p
		return err
	})
	if plan.Dual() {
		g.Go(func() error {
			p, err := o.gateway.FetchProducts(gctx, *plan.Metadata)
			meta = p
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if display == nil || (plan.Dual() && meta == nil) {
		return nil, nil, ErrMalformedResponse
	}
	if meta == nil {
		meta = display
	}
	return display, meta, nil
}

func (o *Orchestrator) subscriberList() []func(View) {
	out := make([]func(View), 0, len(o.subscribers))
	for _, fn := range o.subscribers {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(View), v View) {
	for _, fn := range subs {
		fn(v)
	}
}
