package db

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	embeddedmigrations "github.com/terraincognita07/vitalcheck/migrations"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var migrationFilePattern = regexp.MustCompile(`^(\d+)_.*\.sql$`)

var (
	ErrMigrationChecksumMismatch = errors.New("applied migration changed since it ran")
	ErrUnknownAppliedMigration   = errors.New("database has a migration this build does not ship")
)

type sqlMigration struct {
	Version  string
	Order    int
	Name     string
	SQL      string
	Checksum string
}

type appliedMigration struct {
	Version  string `gorm:"column:version"`
	Checksum string `gorm:"column:checksum"`
}

func applyEmbeddedMigrations(database *gorm.DB, logger *zap.Logger) error {
	return applyMigrations(database, embeddedmigrations.Files, logger)
}

// applyMigrations runs every pending file of source in version order, one transaction per file.
// Files that already ran must still hash to the recorded checksum.
func applyMigrations(database *gorm.DB, source fs.FS, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := ensureSchemaMigrationsTable(database); err != nil {
		return err
	}

	migrations, err := loadMigrations(source)
	if err != nil {
		return err
	}
	applied, err := loadAppliedMigrations(database)
	if err != nil {
		return err
	}
	if err := verifyAppliedMigrations(database, migrations, applied); err != nil {
		return err
	}

	for _, migration := range migrations {
		if _, done := applied[migration.Version]; done {
			continue
		}
		if err := applyMigration(database, migration); err != nil {
			return err
		}
		logger.Info("migration applied",
			zap.String("name", migration.Name),
			zap.String("checksum", migration.Checksum[:12]),
		)
	}
	return nil
}

func ensureSchemaMigrationsTable(database *gorm.DB) error {
	const createTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  checksum TEXT NOT NULL DEFAULT '',
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	if err := database.Exec(createTableSQL).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}

func loadMigrations(source fs.FS) ([]sqlMigration, error) {
	entries, err := fs.ReadDir(source, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	migrations := make([]sqlMigration, 0, len(entries))
	seenVersions := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileName := entry.Name()
		matches := migrationFilePattern.FindStringSubmatch(fileName)
		if len(matches) != 2 {
			continue
		}

		version := matches[1]
		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", fileName, err)
		}
		if existing, exists := seenVersions[version]; exists {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, existing, fileName)
		}
		seenVersions[version] = fileName

		rawSQL, err := fs.ReadFile(source, fileName)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", fileName, err)
		}
		migrations = append(migrations, sqlMigration{
			Version:  version,
			Order:    order,
			Name:     fileName,
			SQL:      string(rawSQL),
			Checksum: migrationChecksum(rawSQL),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Order < migrations[j].Order
	})
	return migrations, nil
}

// migrationChecksum ignores line ending differences so a checkout on another OS still matches.
func migrationChecksum(rawSQL []byte) string {
	normalized := strings.ReplaceAll(string(rawSQL), "\r\n", "\n")
	sum := sha256.Sum256([]byte(strings.TrimSpace(normalized)))
	return hex.EncodeToString(sum[:])
}

func loadAppliedMigrations(database *gorm.DB) (map[string]appliedMigration, error) {
	rows := make([]appliedMigration, 0)
	if err := database.Raw(`SELECT version, checksum FROM schema_migrations`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}

	applied := make(map[string]appliedMigration, len(rows))
	for _, row := range rows {
		applied[row.Version] = row
	}
	return applied, nil
}

// verifyAppliedMigrations rejects edited or unknown history. Rows recorded without a
// checksum get the current one.
func verifyAppliedMigrations(database *gorm.DB, migrations []sqlMigration, applied map[string]appliedMigration) error {
	known := make(map[string]struct{}, len(migrations))
	for _, migration := range migrations {
		known[migration.Version] = struct{}{}

		record, done := applied[migration.Version]
		if !done {
			continue
		}
		if record.Checksum == "" {
			if err := database.Exec(
				`UPDATE schema_migrations SET checksum = ? WHERE version = ?`,
				migration.Checksum,
				migration.Version,
			).Error; err != nil {
				return fmt.Errorf("record checksum for %s: %w", migration.Name, err)
			}
			continue
		}
		if record.Checksum != migration.Checksum {
			return fmt.Errorf("%w: %s", ErrMigrationChecksumMismatch, migration.Name)
		}
	}

	for version := range applied {
		if _, ok := known[version]; !ok {
			return fmt.Errorf("%w: version %s", ErrUnknownAppliedMigration, version)
		}
	}
	return nil
}

func applyMigration(database *gorm.DB, migration sqlMigration) error {
	return database.Transaction(func(tx *gorm.DB) error {
		statements := splitSQLStatements(migration.SQL)
		if len(statements) == 0 {
			return fmt.Errorf("migration %s has no SQL statements", migration.Name)
		}

		for _, statement := range statements {
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", migration.Name, statement, err)
			}
		}

		if err := tx.Exec(
			`INSERT INTO schema_migrations(version, name, checksum) VALUES (?, ?, ?)`,
			migration.Version,
			migration.Name,
			migration.Checksum,
		).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", migration.Name, err)
		}
		return nil
	})
}

// splitSQLStatements splits on semicolons. Migrations must not put one inside a string literal.
func splitSQLStatements(sqlText string) []string {
	rawParts := strings.Split(sqlText, ";")
	statements := make([]string, 0, len(rawParts))
	for _, rawPart := range rawParts {
		statement := strings.TrimSpace(rawPart)
		if statement == "" {
			continue
		}
		statements = append(statements, statement)
	}
	return statements
}
