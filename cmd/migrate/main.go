package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logger"
)

const migrationsTable = `
	CREATE TABLE IF NOT EXISTS migrations (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last applied migration")
	dir := flag.String("dir", "migrations", "Directory holding the SQL migrations")
	flag.Parse()

	logger.Init("foodgram-migrate", true)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Logger.Fatal().Msg("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := db.ExecContext(ctx, migrationsTable); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to create migrations table")
	}

	if *rollback {
		err = rollbackLast(ctx, db, *dir)
	} else {
		err = applyAll(ctx, db, *dir)
	}
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("migration failed")
	}
}

func applyAll(ctx context.Context, db *sql.DB, dir string) error {
	files, err := database.MigrationFiles(dir)
	if err != nil {
		return err
	}

	for _, name := range files {
		var applied bool
		if err := db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM migrations WHERE name = $1)", name).Scan(&applied); err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if applied {
			logger.Logger.Info().Str("migration", name).Msg("already applied")
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		err = inTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", name, err)
			}
			_, err := tx.ExecContext(ctx, "INSERT INTO migrations (name) VALUES ($1)", name)
			return err
		})
		if err != nil {
			return err
		}
		logger.Logger.Info().Str("migration", name).Msg("applied migration")
	}

	logger.Logger.Info().Int("total", len(files)).Msg("all migrations applied")
	return nil
}

func rollbackLast(ctx context.Context, db *sql.DB, dir string) error {
	var name string
	err := db.QueryRowContext(ctx, "SELECT name FROM migrations ORDER BY applied_at DESC, id DESC LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		logger.Logger.Info().Msg("no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find last migration: %w", err)
	}

	path := filepath.Join(dir, database.RollbackFile(name))
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read rollback file %s: %w", path, err)
	}

	err = inTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute rollback: %w", err)
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM migrations WHERE name = $1", name)
		return err
	})
	if err != nil {
		return err
	}

	logger.Logger.Info().Str("migration", name).Msg("rolled back migration")
	return nil
}

func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
