package facet

import (
	"context"
	"sync"

	"github.com/wizzzeystore/wizzzey-store-web/internal/catalog"
	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"go.uber.org/zap"
)

// Service loads the filter options for one page view.
type Service interface {
	Load(ctx context.Context, brandSearch, bearerToken string) Options
}

type service struct {
	client Client
}

func NewService(client Client) Service {
	return &service{client: client}
}

// Load fetches categories and brands concurrently. A failed list never fails
// the page: it comes back empty with a Notice.
func (s *service) Load(ctx context.Context, brandSearch, bearerToken string) Options {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "LoadFacets"),
	)

	opts := Options{
		Categories: []catalog.Category{},
		Brands:     []catalog.Brand{},
	}
	var categoriesErr, brandsErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		categories, err := s.client.Categories(ctx)
		if err != nil {
			categoriesErr = err
			return
		}
		opts.Categories = categories
	}()
	go func() {
		defer wg.Done()
		brands, err := s.client.Brands(ctx, brandSearch, bearerToken)
		if err != nil {
			brandsErr = err
			return
		}
		opts.Brands = brands
	}()
	wg.Wait()

	if categoriesErr != nil {
		log.Warn("categories unavailable", zap.Error(categoriesErr))
		opts.Notices = append(opts.Notices, Notice{
			Source:  "categories",
			Title:   "Error Loading Categories",
			Message: noticeMessage(categoriesErr, "Could not fetch category options."),
		})
	}
	if brandsErr != nil {
		log.Warn("brands unavailable", zap.Error(brandsErr))
		opts.Notices = append(opts.Notices, Notice{
			Source:  "brands",
			Title:   "Error Loading Brands",
			Message: noticeMessage(brandsErr, "Could not fetch brands."),
		})
	}

	log.Info("facets loaded",
		zap.Int("categories", len(opts.Categories)),
		zap.Int("brands", len(opts.Brands)),
	)
	return opts
}

func noticeMessage(err error, fallback string) string {
	if msg := catalog.Message(err); msg != "" {
		return msg
	}
	return fallback
}
