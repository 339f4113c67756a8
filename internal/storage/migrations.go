package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Dialect names the SQL flavour a migration is written for
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// dialectOf maps a sqlx driver name to a dialect
func dialectOf(driverName string) Dialect {
	if driverName == "postgres" || driverName == "pgx" {
		return DialectPostgres
	}
	return DialectSQLite
}

// Migration represents a database migration
type Migration struct {
	Version     int
	Name        string
	Description string
	Up          map[Dialect]string
	Down        map[Dialect]string
}

// MigrationManager handles database migrations
type MigrationManager struct {
	db      *sqlx.DB
	dialect Dialect
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *sqlx.DB) *MigrationManager {
	return &MigrationManager{db: db, dialect: dialectOf(db.DriverName())}
}

// GetMigrations returns all available migrations
func (m *MigrationManager) GetMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Name:        "create_api_docs",
			Description: "Create the api_docs table with one row per route identifier",
			Up: map[Dialect]string{
				DialectSQLite: `
					CREATE TABLE IF NOT EXISTS api_docs (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						identifier TEXT NOT NULL,
						title TEXT NOT NULL DEFAULT '',
						method TEXT NOT NULL,
						uri TEXT NOT NULL,
						description TEXT NOT NULL DEFAULT '',
						parameters TEXT,
						response TEXT,
						created_at DATETIME NOT NULL,
						updated_at DATETIME NOT NULL
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_api_docs_identifier ON api_docs(identifier);
				`,
				DialectPostgres: `
					CREATE TABLE IF NOT EXISTS api_docs (
						id BIGSERIAL PRIMARY KEY,
						identifier VARCHAR(255) NOT NULL,
						title VARCHAR(255) NOT NULL DEFAULT '',
						method VARCHAR(16) NOT NULL,
						uri VARCHAR(2048) NOT NULL,
						description TEXT NOT NULL DEFAULT '',
						parameters JSONB,
						response JSONB,
						created_at TIMESTAMPTZ NOT NULL,
						updated_at TIMESTAMPTZ NOT NULL
					);
					CREATE UNIQUE INDEX IF NOT EXISTS idx_api_docs_identifier ON api_docs(identifier);
				`,
			},
			Down: map[Dialect]string{
				DialectSQLite:   `DROP TABLE IF EXISTS api_docs;`,
				DialectPostgres: `DROP TABLE IF EXISTS api_docs;`,
			},
		},
		{
			Version:     2,
			Name:        "add_api_docs_uri_index",
			Description: "Index api_docs by uri for lookups from the read API",
			Up: map[Dialect]string{
				DialectSQLite:   `CREATE INDEX IF NOT EXISTS idx_api_docs_uri ON api_docs(uri);`,
				DialectPostgres: `CREATE INDEX IF NOT EXISTS idx_api_docs_uri ON api_docs(uri);`,
			},
			Down: map[Dialect]string{
				DialectSQLite:   `DROP INDEX IF EXISTS idx_api_docs_uri;`,
				DialectPostgres: `DROP INDEX IF EXISTS idx_api_docs_uri;`,
			},
		},
	}
}

// Migrate runs all pending migrations
func (m *MigrationManager) Migrate(ctx context.Context) error {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	for _, migration := range m.GetMigrations() {
		if migration.Version <= currentVersion {
			continue
		}

		if err := m.applyMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w",
				migration.Version, migration.Name, err)
		}
	}

	return nil
}

// Rollback rolls back to a specific version
func (m *MigrationManager) Rollback(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if targetVersion >= currentVersion {
		return fmt.Errorf("target version %d is not less than current version %d",
			targetVersion, currentVersion)
	}

	migrations := m.GetMigrations()
	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if migration.Version <= targetVersion {
			break
		}
		if migration.Version > currentVersion {
			continue
		}

		if err := m.rollbackMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to rollback migration %d (%s): %w",
				migration.Version, migration.Name, err)
		}
	}

	return nil
}

// GetCurrentVersion returns the current schema version
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (int, error) {
	var version int
	err := m.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (m *MigrationManager) ensureMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := m.db.ExecContext(ctx, query)
	return err
}

func (m *MigrationManager) applyMigration(ctx context.Context, migration Migration) error {
	script, ok := migration.Up[m.dialect]
	if !ok {
		return fmt.Errorf("no %s variant", m.dialect)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range splitSQL(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %s: %w", stmt, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		tx.Rebind("INSERT INTO schema_migrations (version, name) VALUES (?, ?)"),
		migration.Version, migration.Name)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (m *MigrationManager) rollbackMigration(ctx context.Context, migration Migration) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range splitSQL(migration.Down[m.dialect]) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute rollback statement: %s: %w", stmt, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		tx.Rebind("DELETE FROM schema_migrations WHERE version = ?"), migration.Version)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// splitSQL splits a script into statements and drops "--" comment lines
func splitSQL(script string) []string {
	var result []string
	for _, stmt := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(stmt, "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "--") {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			result = append(result, strings.Join(lines, " "))
		}
	}
	return result
}

// GetAppliedMigrations returns list of applied migrations
func (m *MigrationManager) GetAppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	var migrations []AppliedMigration
	err := m.db.SelectContext(ctx, &migrations,
		"SELECT version, name, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, err
	}
	return migrations, nil
}

// AppliedMigration represents an applied migration
type AppliedMigration struct {
	Version   int       `db:"version" json:"version"`
	Name      string    `db:"name" json:"name"`
	AppliedAt time.Time `db:"applied_at" json:"applied_at"`
}
