package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/wizzzeystore/wizzzey-store-web/internal/config"
	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

const pingTimeout = 5 * time.Second

// NewDatabase opens the Postgres database at cfg.DBURL and checks that it
// answers.
func NewDatabase(cfg *config.Config) (*sql.DB, error) {
	return newDatabaseWithDriver(cfg, "postgres")
}

func newDatabaseWithDriver(cfg *config.Config, driver string) (*sql.DB, error) {
	db, err := sql.Open(driver, cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.L().Info("database connection established", zap.String("driver", driver))
	return db, nil
}

// InitDB is NewDatabase for process start-up: failure is fatal.
func InitDB(cfg *config.Config) *sql.DB {
	db, err := NewDatabase(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return db
}
