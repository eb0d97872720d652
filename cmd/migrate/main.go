package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", "up", "migration mode: up or down")
	dir := flag.String("dir", "./migrations", "migrations directory")
	flag.Parse()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL not set in environment")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer db.Close()

	if err := run(db, *mode, *dir); err != nil {
		log.Fatal(err)
	}
}

func run(db *sql.DB, mode, migrationsDir string) error {
	_, err := db.Exec(`
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
	sort.Strings(files)

	switch mode {
	case "up":
		return migrateUp(db, files)
	case "down":
		return migrateDown(db, files)
	default:
		return fmt.Errorf("unknown mode: %s (use 'up' or 'down')", mode)
	}
}

func migrateUp(db *sql.DB, files []string) error {
	for _, file := range files {
		version := filepath.Base(file)

		var exists bool
		err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		fmt.Printf("applying %s\n", version)
		if _, err := db.Exec(section(string(content), "Up")); err != nil {
			return fmt.Errorf("migration failed (%s): %w", version, err)
		}

		if _, err := db.Exec(`INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("failed to record migration version: %w", err)
		}
	}
	fmt.Println("migrations up to date")
	return nil
}

func migrateDown(db *sql.DB, files []string) error {
	var last string
	err := db.QueryRow(`SELECT version FROM schema_migrations ORDER BY applied_at DESC LIMIT 1`).Scan(&last)
	if err == sql.ErrNoRows {
		fmt.Println("nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}

	var path string
	for _, f := range files {
		if filepath.Base(f) == last {
			path = f
			break
		}
	}
	if path == "" {
		return fmt.Errorf("migration file not found for version: %s", last)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	fmt.Printf("rolling back %s\n", last)
	if _, err := db.Exec(section(string(content), "Down")); err != nil {
		return fmt.Errorf("rollback failed (%s): %w", last, err)
	}

	if _, err := db.Exec(`DELETE FROM schema_migrations WHERE version = $1`, last); err != nil {
		return fmt.Errorf("failed to remove migration record: %w", err)
	}
	return nil
}

// section extracts the lines between "-- +migrate <name>" and the next
// "-- +migrate" marker.
func section(content, name string) string {
	var b strings.Builder
	in := false
	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "-- +migrate "+name) {
			in = true
			continue
		}
		if in && strings.HasPrefix(line, "-- +migrate") {
			break
		}
		if in {
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
