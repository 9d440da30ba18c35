package collection

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/wizzzeystore/wizzzey-store-web/internal/filter"
	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"github.com/wizzzeystore/wizzzey-store-web/internal/utils"
	"go.uber.org/zap"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type Service interface {
	// Resolve turns a collection link into the shop query of its explicit
	// product selection.
	Resolve(ctx context.Context, slug string) (*Collection, url.Values, error)
	List(ctx context.Context) ([]*Collection, error)
	Save(ctx context.Context, in SaveInput) (*Collection, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Resolve(ctx context.Context, slug string) (*Collection, url.Values, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ResolveCollection"),
		zap.String("slug", slug),
	)

	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return nil, nil, ErrInvalidSlug
	}

	c, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	if !c.Active {
		log.Info("collection is inactive")
		return nil, nil, ErrCollectionNotFound
	}

	state := filter.State{ProductIDs: c.ProductIDs}.Normalize()
	if !state.Explicit() {
		log.Warn("collection resolved to no products")
		return nil, nil, ErrEmptyCollection
	}

	log.Info("collection resolved", zap.Int("products", len(state.ProductIDs)))
	return c, filter.Encode(state), nil
}

func (s *service) List(ctx context.Context) ([]*Collection, error) {
	return s.repo.List(ctx, true)
}

func (s *service) Save(ctx context.Context, in SaveInput) (*Collection, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SaveCollection"),
	)

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if slug == "" {
		slug = utils.Slugify(title)
	}
	if !slugPattern.MatchString(slug) {
		log.Warn("rejected collection slug", zap.String("slug", slug))
		return nil, ErrInvalidSlug
	}

	ids := filter.State{ProductIDs: in.ProductIDs}.Normalize().ProductIDs
	if len(ids) == 0 {
		return nil, ErrEmptyCollection
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	return s.repo.Upsert(ctx, &Collection{
		Slug:       slug,
		Title:      title,
		ProductIDs: ids,
		Active:     active,
	})
}
