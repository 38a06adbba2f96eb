package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var (
		dbURL          = flag.String("db", "", "Database URL (or set ATTENDANCE_DATABASE_URL env)")
		migrationsPath = flag.String("path", "migrations", "Path to migrations directory")
		direction      = flag.String("direction", "up", "Migration direction: up or down")
		steps          = flag.Int("steps", 0, "Number of migrations to apply (0 = all, or 1 for a single down step)")
	)
	flag.Parse()

	databaseURL := *dbURL
	if databaseURL == "" {
		databaseURL = os.Getenv("ATTENDANCE_DATABASE_URL")
	}
	if databaseURL == "" {
		log.Fatal().Msg("database URL required: use -db flag or set ATTENDANCE_DATABASE_URL env")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	log.Info().Msg("connected to database")

	if err := ensureMigrationsTable(db); err != nil {
		log.Fatal().Err(err).Msg("failed to create schema_migrations table")
	}

	switch *direction {
	case "up":
		if err := migrateUp(db, *migrationsPath, *steps); err != nil {
			log.Fatal().Err(err).Msg("migration up failed")
		}
	case "down":
		if err := migrateDown(db, *migrationsPath, *steps); err != nil {
			log.Fatal().Err(err).Msg("migration down failed")
		}
	default:
		log.Fatal().Str("direction", *direction).Msg("invalid direction, use 'up' or 'down'")
	}

	log.Info().Msg("migration completed successfully")
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func getAppliedMigrations(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func getMigrationFiles(path, suffix string) ([]string, error) {
	pattern := filepath.Join(path, fmt.Sprintf("*%s.sql", suffix))
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func extractVersion(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, ".up.sql")
	base = strings.TrimSuffix(base, ".down.sql")
	return base
}

func migrateUp(db *sql.DB, path string, steps int) error {
	applied, err := getAppliedMigrations(db)
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	files, err := getMigrationFiles(path, ".up")
	if err != nil {
		return fmt.Errorf("glob migration files: %w", err)
	}

	count := 0
	for _, file := range files {
		version := extractVersion(file)
		if applied[version] {
			continue
		}
		if steps > 0 && count >= steps {
			break
		}

		log.Info().Str("version", version).Msg("applying migration")

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration file %s: %w", file, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("execute migration %s: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", version, err)
		}

		count++
	}

	if count == 0 {
		log.Info().Msg("no migrations to apply")
	} else {
		log.Info().Int("count", count).Msg("migrations applied")
	}
	return nil
}

func migrateDown(db *sql.DB, path string, steps int) error {
	applied, err := getAppliedMigrations(db)
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	files, err := getMigrationFiles(path, ".down")
	if err != nil {
		return fmt.Errorf("glob migration files: %w", err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	if steps == 0 {
		steps = 1
	}

	count := 0
	for _, file := range files {
		version := extractVersion(file)
		if !applied[version] {
			continue
		}
		if count >= steps {
			break
		}

		log.Info().Str("version", version).Msg("rolling back migration")

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration file %s: %w", file, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("execute rollback %s: %w", version, err)
		}
		if _, err := tx.Exec("DELETE FROM schema_migrations WHERE version = $1", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("unrecord migration %s: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit rollback %s: %w", version, err)
		}

		count++
	}

	if count == 0 {
		log.Info().Msg("no migrations to roll back")
	} else {
		log.Info().Int("count", count).Msg("migrations rolled back")
	}
	return nil
}
