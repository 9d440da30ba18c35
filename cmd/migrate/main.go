package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/wizzzeystore/wizzzey-store-web/internal/config"
	"github.com/wizzzeystore/wizzzey-store-web/internal/db"
	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", "up", "migration mode: up or down")
	dir := flag.String("dir", "./migrations", "directory holding the .sql migrations")
	flag.Parse()

	logger.Init(os.Getenv("APP_ENV"))
	defer logger.Sync()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL not set in environment")
	}

	database, err := db.NewDatabase(&config.Config{DBURL: dbURL})
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer database.Close()

	if err := run(context.Background(), database, *mode, *dir); err != nil {
		logger.L().Fatal("migration failed", zap.Error(err))
	}
}

func run(ctx context.Context, db *sql.DB, mode, migrationsDir string) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}
	slices.Sort(files)

	switch mode {
	case "up":
		return runMigrationsUp(ctx, db, files)
	case "down":
		return runMigrationsDown(ctx, db, files)
	default:
		return fmt.Errorf("unknown mode: %s (use 'up' or 'down')", mode)
	}
}

func runMigrationsUp(ctx context.Context, db *sql.DB, files []string) error {
	log := logger.L().With(zap.String("mode", "up"))

	applied := 0
	for _, file := range files {
		version := filepath.Base(file)

		var exists bool
		err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			log.Debug("skipping applied migration", zap.String("version", version))
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		log.Info("applying migration", zap.String("version", version))
		if err := inTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, extractMigrationPart(string(content), "Up")); err != nil {
				return fmt.Errorf("migration %s: %w", version, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
				return fmt.Errorf("failed to record migration version: %w", err)
			}
			return nil
		}); err != nil {
			return err
		}
		applied++
	}

	log.Info("migrations up to date", zap.Int("applied", applied))
	return nil
}

func runMigrationsDown(ctx context.Context, db *sql.DB, files []string) error {
	log := logger.L().With(zap.String("mode", "down"))

	var lastVersion string
	err := db.QueryRowContext(ctx, `SELECT version FROM schema_migrations ORDER BY applied_at DESC, version DESC LIMIT 1`).Scan(&lastVersion)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}

	i := slices.IndexFunc(files, func(f string) bool { return filepath.Base(f) == lastVersion })
	if i < 0 {
		return fmt.Errorf("migration file not found for version: %s", lastVersion)
	}

	content, err := os.ReadFile(files[i])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", files[i], err)
	}

	log.Info("rolling back migration", zap.String("version", lastVersion))
	return inTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, extractMigrationPart(string(content), "Down")); err != nil {
			return fmt.Errorf("rollback %s: %w", lastVersion, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, lastVersion); err != nil {
			return fmt.Errorf("failed to remove migration record: %w", err)
		}
		return nil
	})
}

func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// extractMigrationPart returns the statements between "-- +migrate <section>"
// and the next marker.
func extractMigrationPart(content string, section string) string {
	var part strings.Builder
	var inPart bool

	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "-- +migrate "+section) {
			inPart = true
			continue
		}
		if inPart && strings.HasPrefix(line, "-- +migrate") {
			break
		}
		if inPart {
			part.WriteString(line + "\n")
		}
	}
	return part.String()
}
