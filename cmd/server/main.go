package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wizzzeystore/wizzzey-store-web/internal/catalog"
	"github.com/wizzzeystore/wizzzey-store-web/internal/collection"
	"github.com/wizzzeystore/wizzzey-store-web/internal/config"
	"github.com/wizzzeystore/wizzzey-store-web/internal/db"
	"github.com/wizzzeystore/wizzzey-store-web/internal/facet"
	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"github.com/wizzzeystore/wizzzey-store-web/internal/middleware"
	"github.com/wizzzeystore/wizzzey-store-web/internal/shop"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gateway := catalog.NewGateway(cfg.CatalogAPIURL, cfg.CatalogTimeout)
	facets := facet.NewService(facet.NewClient(cfg.CatalogAPIURL, cfg.FacetRetryMax, cfg.CatalogTimeout))

	var collections collection.Service
	if cfg.CollectionsEnabled() {
		database := db.InitDB(cfg)
		defer database.Close()
		collections = collection.NewService(collection.NewRepository(database))
	} else {
		log.Info("DB_URL not set, curated collections disabled")
	}

	shopHandler := shop.NewShopHandler(gateway, facets, collections, cfg.CatalogPageLimit)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.InternalSecretKey)
	go limiter.Cleanup(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           setupRouter(cfg, shopHandler, limiter),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.CatalogTimeout + 5*time.Second,
	}

	go func() {
		log.Info("storefront server running",
			zap.String("addr", srv.Addr),
			zap.String("catalog", cfg.CatalogAPIURL),
			zap.Bool("collections", collections != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func setupRouter(cfg *config.Config, shopHandler *shop.Handler, limiter *middleware.RateLimiter) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Metrics)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	shopHandler.Register(r)

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(middleware.RequireServiceKey(cfg.InternalSecretKey))
	shopHandler.RegisterAdmin(admin)

	var h http.Handler = r
	h = limiter.Middleware(h)
	h = logger.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)
	h = middleware.CORS(cfg.CORSOrigins...)(h)
	return h
}
