package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"github.com/wizzzeystore/wizzzey-store-web/internal/metrics"
	"go.uber.org/zap"
)

const productsPath = "/api/products"

// Gateway fetches product listings from the catalog API.
type Gateway interface {
	FetchProducts(ctx context.Context, p Params) (*Page, error)
}

type httpGateway struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewGateway returns a Gateway for the API at baseURL. Calls are never
// retried here; an unhealthy API trips the breaker and fails fast instead.
func NewGateway(baseURL string, timeout time.Duration) Gateway {
	if baseURL == "" {
		logger.L().Warn("catalog API base URL is empty")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &httpGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: newBreaker("catalog-api"),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || !upstreamFault(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.L().Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

func (g *httpGateway) FetchProducts(ctx context.Context, p Params) (*Page, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("method", "FetchProducts"),
	)

	if g.baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	endpoint := productsPath + "?" + p.Values().Encode()
	timer := metrics.StartTimer()

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.get(ctx, endpoint)
	})
	metrics.ObserveUpstream("products", timer.Duration(), err)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Warn("catalog API circuit open", zap.Error(err))
			return nil, &APIError{
				Endpoint: endpoint,
				Status:   http.StatusServiceUnavailable,
				Message:  "The catalog is temporarily unavailable. Please try again later.",
			}
		}
		log.Error("catalog request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, err
	}

	page := result.(*Page)
	log.Debug("catalog request succeeded",
		zap.String("endpoint", endpoint),
		zap.Int("items", len(page.Items)),
		zap.Duration("duration", timer.Duration()),
	)
	return page, nil
}

func (g *httpGateway) get(ctx context.Context, endpoint string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if id := logger.RequestIDFrom(ctx); id != "" {
		req.Header.Set(logger.RequestIDHeader, id)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewAPIError(endpoint, resp.StatusCode, body)
	}
	if resp.StatusCode == http.StatusNoContent {
		return &Page{Items: []Product{}}, nil
	}

	return decodePage(endpoint, resp.StatusCode, body, g.baseURL)
}
