package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingCatalogURL = errors.New("CATALOG_API_URL is required")

type Config struct {
	AppEnv  string
	AppPort string

	CatalogAPIURL    string
	CatalogPageLimit int
	CatalogTimeout   time.Duration
	FacetRetryMax    int

	// DBURL is optional; curated collections are disabled without it.
	DBURL string

	RateLimitRPS      float64
	RateLimitBurst    int
	InternalSecretKey string
	CORSOrigins       []string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("CATALOG_PAGE_LIMIT", 9)
	v.SetDefault("CATALOG_TIMEOUT", "15s")
	v.SetDefault("FACET_RETRY_MAX", 3)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	return v
}

// Load reads .env, when present, and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	cfg := &Config{
		AppEnv:            v.GetString("APP_ENV"),
		AppPort:           v.GetString("APP_PORT"),
		CatalogAPIURL:     strings.TrimRight(strings.TrimSpace(v.GetString("CATALOG_API_URL")), "/"),
		CatalogPageLimit:  v.GetInt("CATALOG_PAGE_LIMIT"),
		CatalogTimeout:    v.GetDuration("CATALOG_TIMEOUT"),
		FacetRetryMax:     v.GetInt("FACET_RETRY_MAX"),
		DBURL:             v.GetString("DB_URL"),
		RateLimitRPS:      v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:    v.GetInt("RATE_LIMIT_BURST"),
		InternalSecretKey: v.GetString("INTERNAL_SECRET_KEY"),
		CORSOrigins:       splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.CatalogAPIURL == "" {
		return nil, ErrMissingCatalogURL
	}
	if cfg.CatalogPageLimit <= 0 {
		cfg.CatalogPageLimit = 9
	}
	if cfg.CatalogTimeout <= 0 {
		cfg.CatalogTimeout = 15 * time.Second
	}
	if cfg.FacetRetryMax < 0 {
		cfg.FacetRetryMax = 0
	}
	return cfg, nil
}

// LoadConfig is Load for process start-up: a bad environment is fatal.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Environment variables not loaded properly: %v", err)
	}
	return cfg
}

// CollectionsEnabled reports whether a database is configured.
func (c *Config) CollectionsEnabled() bool {
	return c.DBURL != ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
