package database

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"lomba-pmr/pkg/logger"
)

// Migration is one versioned SQL file. The ID is the numeric filename
// prefix; files apply in lexical order.
type Migration struct {
	ID          string
	Description string
	SQL         string
	AppliedAt   *time.Time
}

// MigrationRunner applies SQL-file migrations, tracking state in a
// schema_migrations table.
type MigrationRunner struct {
	db            *gorm.DB
	migrationsDir string
}

func NewMigrationRunner(db *gorm.DB, migrationsDir string) *MigrationRunner {
	return &MigrationRunner{db: db, migrationsDir: migrationsDir}
}

func (mr *MigrationRunner) createMigrationsTable() error {
	sql := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id VARCHAR(255) PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`
	return mr.db.Exec(sql).Error
}

func (mr *MigrationRunner) appliedMigrations() (map[string]bool, error) {
	var ids []string
	if err := mr.db.Raw("SELECT id FROM schema_migrations ORDER BY id").Scan(&ids).Error; err != nil {
		return nil, err
	}

	applied := make(map[string]bool, len(ids))
	for _, id := range ids {
		applied[id] = true
	}
	return applied, nil
}

func (mr *MigrationRunner) migrationFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(mr.migrationsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".sql") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (mr *MigrationRunner) readMigrationFile(filePath string) (*Migration, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(filePath)
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid migration filename format: %s", filename)
	}

	return &Migration{
		ID:          parts[0],
		Description: strings.ReplaceAll(strings.TrimSuffix(parts[1], ".sql"), "_", " "),
		SQL:         string(content),
	}, nil
}

// RunMigrations applies every pending migration inside its own transaction.
func (mr *MigrationRunner) RunMigrations() error {
	if err := mr.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := mr.appliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	files, err := mr.migrationFiles()
	if err != nil {
		return fmt.Errorf("failed to get migration files: %w", err)
	}

	pending := 0
	for _, file := range files {
		migration, err := mr.readMigrationFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}
		if applied[migration.ID] {
			continue
		}

		err = mr.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(migration.SQL).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", migration.ID, err)
			}
			return tx.Exec("INSERT INTO schema_migrations (id, description) VALUES (?, ?)",
				migration.ID, migration.Description).Error
		})
		if err != nil {
			return err
		}

		logger.Info("Applied migration %s - %s", migration.ID, migration.Description)
		pending++
	}

	if pending == 0 {
		logger.Info("No pending migrations to apply")
	} else {
		logger.Info("Applied %d migrations", pending)
	}
	return nil
}

// GetMigrationStatus lists every migration file with its applied timestamp,
// when known.
func (mr *MigrationRunner) GetMigrationStatus() ([]Migration, error) {
	applied, err := mr.appliedMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	files, err := mr.migrationFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to get migration files: %w", err)
	}

	var migrations []Migration
	for _, file := range files {
		migration, err := mr.readMigrationFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		if applied[migration.ID] {
			var appliedAt time.Time
			if err := mr.db.Raw("SELECT applied_at FROM schema_migrations WHERE id = ?", migration.ID).
				Scan(&appliedAt).Error; err == nil {
				migration.AppliedAt = &appliedAt
			}
		}
		migrations = append(migrations, *migration)
	}
	return migrations, nil
}
