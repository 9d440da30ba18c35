package shop

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/wizzzeystore/wizzzey-store-web/internal/catalog"
	"github.com/wizzzeystore/wizzzey-store-web/internal/collection"
	"github.com/wizzzeystore/wizzzey-store-web/internal/facet"
	"github.com/wizzzeystore/wizzzey-store-web/internal/filter"
	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"github.com/wizzzeystore/wizzzey-store-web/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handler serves the shop browse API. Each request gets its own controller
// and orchestrator, so concurrent shoppers never supersede each other's
// generations.
type Handler struct {
	Gateway     catalog.Gateway
	Facets      facet.Service
	Collections collection.Service
	Limit       int

	// bounds are the price bounds the catalog last reported. They seed each
	// request so URL prices are clamped before the first catalog call.
	mu     sync.RWMutex
	bounds *filter.PriceBounds
}

func NewShopHandler(gateway catalog.Gateway, facets facet.Service, collections collection.Service, limit int) *Handler {
	return &Handler{
		Gateway:     gateway,
		Facets:      facets,
		Collections: collections,
		Limit:       limit,
	}
}

// Register mounts the shop routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/shop", h.Shop).Methods(http.MethodGet)
	r.HandleFunc("/api/shop/filters", h.SetFilters).Methods(http.MethodPost)
	r.HandleFunc("/api/shop/page", h.SetPage).Methods(http.MethodPost)
	r.HandleFunc("/api/shop/reset", h.Reset).Methods(http.MethodPost)
	if h.Collections != nil {
		r.HandleFunc("/api/collections", h.ListCollections).Methods(http.MethodGet)
		r.HandleFunc("/api/collections/{slug}", h.Collection).Methods(http.MethodGet)
	}
}

// RegisterAdmin mounts the collection management routes. The caller guards r.
func (h *Handler) RegisterAdmin(r *mux.Router) {
	if h.Collections != nil {
		r.HandleFunc("/collections", h.SaveCollection).Methods(http.MethodPost)
	}
}

type filtersRequest struct {
	Query       string              `json:"query"`
	Patch       Patch               `json:"patch"`
	PriceBounds *filter.PriceBounds `json:"priceBounds,omitempty"`
}

type pageRequest struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
}

type resetRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Query   string       `json:"query"`
	Filters filter.State `json:"filters"`
}

type collectionResponse struct {
	Collection *collection.Collection `json:"collection"`
	Query      string                 `json:"query"`
	View       PageView               `json:"view"`
}

// Shop loads the catalog page and the filter options for the request query.
func (h *Handler) Shop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	ctrl := h.newController(query)
	view, status := h.render(ctx, ctrl, query.Get("brandSearch"), bearerToken(r))
	utils.WriteJSON(w, status, view)
}

// SetFilters applies a patch to the posted query and returns the new query.
func (h *Handler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var req filtersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, ErrInvalidBody.Error(), http.StatusBadRequest)
		return
	}
	values, err := parseQuery(req.Query)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctrl := NewController(NewMemoryStore(values), nil, nil)
	if req.PriceBounds != nil {
		ctrl.SetBounds(req.PriceBounds)
	} else {
		ctrl.SetBounds(h.knownBounds())
	}
	state := ctrl.SetFilters(r.Context(), req.Patch)

	utils.WriteJSON(w, http.StatusOK, queryResponse{Query: ctrl.Query(), Filters: state})
}

// SetPage moves the posted query to another page.
func (h *Handler) SetPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, ErrInvalidBody.Error(), http.StatusBadRequest)
		return
	}
	if req.Page < 1 {
		utils.WriteJSONError(w, ErrInvalidPage.Error(), http.StatusBadRequest)
		return
	}
	values, err := parseQuery(req.Query)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctrl := NewController(NewMemoryStore(values), nil, nil)
	ctrl.SetBounds(h.knownBounds())
	state := ctrl.SetPage(r.Context(), req.Page)

	utils.WriteJSON(w, http.StatusOK, queryResponse{Query: ctrl.Query(), Filters: state})
}

// Reset strips every filter key from the posted query.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, ErrInvalidBody.Error(), http.StatusBadRequest)
		return
	}
	values, err := parseQuery(req.Query)
	if err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctrl := NewController(NewMemoryStore(values), nil, nil)
	ctrl.SetBounds(h.knownBounds())
	state := ctrl.Reset(r.Context())

	utils.WriteJSON(w, http.StatusOK, queryResponse{Query: ctrl.Query(), Filters: state})
}

// Collection serves the explicit selection behind a curated collection link.
func (h *Handler) Collection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "handler"),
		zap.String("method", "Collection"),
	)

	slug := mux.Vars(r)["slug"]
	col, values, err := h.Collections.Resolve(ctx, slug)
	switch {
	case errors.Is(err, collection.ErrCollectionNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, collection.ErrInvalidSlug), errors.Is(err, collection.ErrEmptyCollection):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Error("failed to resolve collection", zap.String("slug", slug), zap.Error(err))
		utils.WriteJSONError(w, "failed to load collection", http.StatusInternalServerError)
		return
	}

	ctrl := h.newController(values)
	view, status := h.render(ctx, ctrl, "", bearerToken(r))
	utils.WriteJSON(w, status, collectionResponse{
		Collection: col,
		Query:      view.Query,
		View:       view,
	})
}

func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.Collections.List(r.Context())
	if err != nil {
		logger.FromCtx(r.Context()).Error("failed to list collections", zap.Error(err))
		utils.WriteJSONError(w, "failed to list collections", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"collections": collections})
}

func (h *Handler) SaveCollection(w http.ResponseWriter, r *http.Request) {
	var in collection.SaveInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		utils.WriteJSONError(w, ErrInvalidBody.Error(), http.StatusBadRequest)
		return
	}

	saved, err := h.Collections.Save(r.Context(), in)
	switch {
	case errors.Is(err, collection.ErrInvalidSlug),
		errors.Is(err, collection.ErrEmptyCollection),
		errors.Is(err, collection.ErrTitleRequired):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		logger.FromCtx(r.Context()).Error("failed to save collection", zap.Error(err))
		utils.WriteJSONError(w, "failed to save collection", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"collection": saved,
		"query":      filter.Encode(filter.State{ProductIDs: saved.ProductIDs}).Encode(),
	})
}

func (h *Handler) newController(values url.Values) *Controller {
	ctrl := NewController(
		NewMemoryStore(values),
		catalog.NewOrchestrator(h.Gateway, h.Limit),
		h.Facets,
	)
	ctrl.SetBounds(h.knownBounds())
	return ctrl
}

func (h *Handler) knownBounds() *filter.PriceBounds {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.bounds == nil {
		return nil
	}
	b := *h.bounds
	return &b
}

func (h *Handler) observeBounds(b *filter.PriceBounds) {
	if b == nil {
		return
	}
	copied := *b
	h.mu.Lock()
	h.bounds = &copied
	h.mu.Unlock()
}

// render loads the facets and the catalog page side by side. A failed
// catalog call still renders, with the message on the view.
func (h *Handler) render(ctx context.Context, ctrl *Controller, brandSearch, token string) (PageView, int) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "handler"),
		zap.String("method", "Shop"),
	)

	var g errgroup.Group
	g.Go(func() error {
		// Facet failures surface as notices, never as errors.
		ctrl.LoadFacets(ctx, brandSearch, token)
		return nil
	})
	g.Go(func() error {
		view, err := ctrl.Load(ctx)
		if err != nil {
			return err
		}
		h.observeBounds(view.PriceBounds)
		return nil
	})
	loadErr := g.Wait()

	view := ctrl.View()
	if loadErr == nil {
		return view, http.StatusOK
	}

	log.Error("catalog load failed", zap.String("query", view.Query), zap.Error(loadErr))
	var apiErr *catalog.APIError
	if errors.As(loadErr, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return view, http.StatusBadRequest
	}
	return view, http.StatusBadGateway
}

func parseQuery(raw string) (url.Values, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, ErrInvalidQuery
	}
	return values, nil
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
