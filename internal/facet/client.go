package facet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/wizzzeystore/wizzzey-store-web/internal/catalog"
	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"github.com/wizzzeystore/wizzzey-store-web/internal/metrics"
	"go.uber.org/zap"
)

const (
	categoriesPath   = "/api/categories"
	brandsPath       = "/api/brands"
	categoryFallback = "https://placehold.co/300x200.png?text="
)

// Client fetches the lists behind the category and brand filters.
type Client interface {
	Categories(ctx context.Context) ([]catalog.Category, error)
	Brands(ctx context.Context, searchTerm, bearerToken string) ([]catalog.Brand, error)
}

type httpClient struct {
	baseURL string
	retry   *retryablehttp.Client
}

// NewClient returns a Client that retries transient failures up to retryMax
// times. These lists only decorate the filter panel, so retrying them is
// harmless.
func NewClient(baseURL string, retryMax int, timeout time.Duration) Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = retryMax
	rc.HTTPClient = &http.Client{Timeout: timeout}
	rc.Logger = leveledLogger{logger.L().Named("facet_http").Sugar()}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		retry:   rc,
	}
}

func (c *httpClient) Categories(ctx context.Context) ([]catalog.Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "facet"),
		zap.String("method", "Categories"),
	)

	var raw categoriesResponse
	if err := c.get(ctx, categoriesPath, "", &raw); err != nil {
		log.Error("failed to fetch categories", zap.Error(err))
		return nil, err
	}

	if strings.EqualFold(raw.Type, "ERROR") || raw.Data == nil || raw.Data.Categories == nil {
		msg := firstText(raw.Message, raw.Error)
		if msg == "" {
			return nil, ErrCategoriesUnavailable
		}
		return nil, fmt.Errorf("%w: %s", ErrCategoriesUnavailable, msg)
	}

	out := make([]catalog.Category, 0, len(raw.Data.Categories))
	for _, ac := range raw.Data.Categories {
		out = append(out, c.mapCategory(ac))
	}
	log.Debug("categories fetched", zap.Int("count", len(out)))
	return out, nil
}

func (c *httpClient) Brands(ctx context.Context, searchTerm, bearerToken string) ([]catalog.Brand, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "facet"),
		zap.String("method", "Brands"),
	)

	endpoint := brandsPath
	if searchTerm = strings.TrimSpace(searchTerm); searchTerm != "" {
		endpoint += "?" + url.Values{"searchTerm": {searchTerm}}.Encode()
	}
	if bearerToken == "" {
		log.Warn("calling brands endpoint without a token")
	}

	var raw brandsResponse
	if err := c.get(ctx, endpoint, bearerToken, &raw); err != nil {
		log.Error("failed to fetch brands", zap.Error(err))
		return nil, err
	}
	if raw.Data == nil || raw.Data.Brands == nil {
		return nil, ErrInvalidBrandsResponse
	}

	out := make([]catalog.Brand, 0, len(raw.Data.Brands))
	for _, b := range raw.Data.Brands {
		id := b.ID
		if id == "" {
			id = b.MongoID
		}
		out = append(out, catalog.Brand{ID: id, Name: b.Name})
	}
	log.Debug("brands fetched", zap.Int("count", len(out)))
	return out, nil
}

func (c *httpClient) get(ctx context.Context, endpoint, bearerToken string, dst any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}
	if id := logger.RequestIDFrom(ctx); id != "" {
		req.Header.Set(logger.RequestIDHeader, id)
	}

	call := strings.TrimPrefix(endpointPath(endpoint), "/api/")
	timer := metrics.StartTimer()

	// PassthroughErrorHandler hands back the last response together with the
	// retry policy error once attempts run out.
	resp, err := c.retry.Do(req)
	if resp == nil {
		if err == nil {
			err = fmt.Errorf("no response")
		}
		metrics.ObserveUpstream(call, timer.Duration(), err)
		return fmt.Errorf("request to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveUpstream(call, timer.Duration(), err)
		return fmt.Errorf("read response from %s: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := catalog.NewAPIError(endpoint, resp.StatusCode, body)
		metrics.ObserveUpstream(call, timer.Duration(), apiErr)
		return apiErr
	}
	metrics.ObserveUpstream(call, timer.Duration(), nil)

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", catalog.ErrMalformedResponse, err)
	}
	return nil
}

func (c *httpClient) mapCategory(ac apiCategory) catalog.Category {
	id := ac.ID
	if id == "" {
		id = ac.MongoID
	}
	image := ""
	if ac.Image != nil {
		image = catalog.ResolveAssetURL(c.baseURL, ac.Image.URL)
	}
	if image == "" {
		image = categoryFallback + strings.ReplaceAll(url.QueryEscape(ac.Name), "+", "%20")
	}
	return catalog.Category{
		ID:          id,
		Name:        ac.Name,
		Description: ac.Description,
		ImageURL:    image,
	}
}

func endpointPath(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}

func firstText(values ...any) string {
	for _, v := range values {
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// leveledLogger adapts zap to retryablehttp.LeveledLogger.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.s.Infow(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
