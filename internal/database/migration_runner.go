package database

import (
	"fmt"
	"os"
	"path/filepath"

	"sasocial/internal/database/migration"

	"go.uber.org/zap"
)

// RunMigrations applies every pending migration from migrationsDir against
// the DATABASE_URL database.
func RunMigrations(migrationsDir string, log *zap.Logger) error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	return migration.Migrate(dbURL, "file://"+absPath, true, log)
}
