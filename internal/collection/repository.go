package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"go.uber.org/zap"
)

type Repository interface {
	GetBySlug(ctx context.Context, slug string) (*Collection, error)
	List(ctx context.Context, activeOnly bool) ([]*Collection, error)
	Upsert(ctx context.Context, c *Collection) (*Collection, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectColumns = `id, slug, title, product_ids, active, created_at, updated_at`

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Collection, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetBySlug"),
		zap.String("slug", slug),
	)

	query := `SELECT ` + selectColumns + ` FROM curated_collections WHERE slug = $1`

	var c Collection
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&c.ID, &c.Slug, &c.Title, pq.Array(&c.ProductIDs), &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		log.Error("query collection failed", zap.Error(err))
		return nil, fmt.Errorf("get collection %q: %w", slug, err)
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]*Collection, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	query := `SELECT ` + selectColumns + ` FROM curated_collections`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("query collections failed", zap.Error(err))
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	collections := []*Collection{}
	for rows.Next() {
		var c Collection
		if err := rows.Scan(
			&c.ID, &c.Slug, &c.Title, pq.Array(&c.ProductIDs), &c.Active, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, &c)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}
	return collections, nil
}

func (r *repository) Upsert(ctx context.Context, c *Collection) (*Collection, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Upsert"),
		zap.String("slug", c.Slug),
	)

	query := `
		INSERT INTO curated_collections (slug, title, product_ids, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE
		SET title = EXCLUDED.title,
			product_ids = EXCLUDED.product_ids,
			active = EXCLUDED.active,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	out := *c
	err := r.db.QueryRowContext(ctx, query, c.Slug, c.Title, pq.Array(c.ProductIDs), c.Active).
		Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		log.Error("upsert collection failed", zap.Error(err))
		return nil, fmt.Errorf("save collection %q: %w", c.Slug, err)
	}

	log.Info("collection saved", zap.Int64("id", out.ID), zap.Int("products", len(out.ProductIDs)))
	return &out, nil
}
