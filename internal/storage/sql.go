package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/johnnynv/RouteScribe/pkg/types"
)

const docColumns = `id, identifier, title, method, uri, description, parameters, response, created_at, updated_at`

// SQLStore implements Storage on top of sqlx for SQLite and PostgreSQL
type SQLStore struct {
	db               *sqlx.DB
	dialect          Dialect
	migrationManager *MigrationManager
	now              func() time.Time
}

// Option customises an SQLStore
type Option func(*SQLStore)

// WithClock replaces the clock used for created_at and updated_at
func WithClock(now func() time.Time) Option {
	return func(s *SQLStore) {
		s.now = now
	}
}

// NewSQLStore wraps an open database. The dialect follows db.DriverName().
func NewSQLStore(db *sqlx.DB, opts ...Option) *SQLStore {
	s := &SQLStore{
		db:               db,
		dialect:          dialectOf(db.DriverName()),
		migrationManager: NewMigrationManager(db),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSQLiteStorage opens (and creates if needed) a SQLite database file
func NewSQLiteStorage(config *types.SQLiteConfig, opts ...Option) (*SQLStore, error) {
	if config == nil {
		return nil, fmt.Errorf("SQLite config is required")
	}

	if config.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	timeout := config.ConnectionTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=1&_timeout=%d", config.Path, timeout.Milliseconds())

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxConns := config.MaxConnections
	if maxConns <= 0 {
		maxConns = 1
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(time.Hour)

	return NewSQLStore(db, opts...), nil
}

// NewPostgresStorage opens a PostgreSQL connection pool through lib/pq
func NewPostgresStorage(config *types.PostgresConfig, opts ...Option) (*SQLStore, error) {
	if config == nil || config.DSN == "" {
		return nil, fmt.Errorf("PostgreSQL DSN is required")
	}

	db, err := sqlx.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.MaxConnections > 0 {
		db.SetMaxOpenConns(config.MaxConnections)
		db.SetMaxIdleConns(config.MaxConnections / 2)
	}
	db.SetConnMaxLifetime(time.Hour)

	return NewSQLStore(db, opts...), nil
}

// Initialize checks the connection and runs migrations
func (s *SQLStore) Initialize(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := s.migrationManager.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// HealthCheck checks if the database is accessible
func (s *SQLStore) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrations exposes the migration manager
func (s *SQLStore) Migrations() *MigrationManager {
	return s.migrationManager
}

// Driver returns the dialect in use
func (s *SQLStore) Driver() Dialect {
	return s.dialect
}

// GetDocByIdentifier returns the record for identifier or a DocNotFoundError
func (s *SQLStore) GetDocByIdentifier(ctx context.Context, identifier string) (*ApiDoc, error) {
	var doc ApiDoc
	query := s.db.Rebind(`SELECT ` + docColumns + ` FROM api_docs WHERE identifier = ?`)

	if err := s.db.GetContext(ctx, &doc, query, identifier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &DocNotFoundError{Identifier: identifier}
		}
		return nil, fmt.Errorf("failed to get api doc %s: %w", identifier, err)
	}

	return &doc, nil
}

// GetDoc returns the record with the given primary key
func (s *SQLStore) GetDoc(ctx context.Context, id int64) (*ApiDoc, error) {
	var doc ApiDoc
	query := s.db.Rebind(`SELECT ` + docColumns + ` FROM api_docs WHERE id = ?`)

	if err := s.db.GetContext(ctx, &doc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &DocNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to get api doc %d: %w", id, err)
	}

	return &doc, nil
}

// InsertDoc inserts doc and fills in ID, CreatedAt and UpdatedAt
func (s *SQLStore) InsertDoc(ctx context.Context, doc *ApiDoc) error {
	now := s.now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO api_docs (identifier, title, method, uri, description, parameters, response, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []interface{}{
		doc.Identifier, doc.Title, doc.Method, doc.URI, doc.Description,
		doc.Parameters, doc.Response, doc.CreatedAt, doc.UpdatedAt,
	}

	if s.dialect == DialectPostgres {
		err := s.db.QueryRowxContext(ctx, s.db.Rebind(query+` RETURNING id`), args...).Scan(&doc.ID)
		if err != nil {
			return s.insertError(doc, err)
		}
		return nil
	}

	result, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return s.insertError(doc, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	doc.ID = id

	return nil
}

func (s *SQLStore) insertError(doc *ApiDoc, err error) error {
	if isUniqueViolation(err) {
		return &DuplicateDocError{Identifier: doc.Identifier}
	}
	return fmt.Errorf("failed to insert api doc %s: %w", doc.Identifier, err)
}

// UpdateDoc overwrites every mutable column of the row with doc.ID and
// refreshes UpdatedAt. ID and CreatedAt are left alone.
func (s *SQLStore) UpdateDoc(ctx context.Context, doc *ApiDoc) error {
	doc.UpdatedAt = s.now().UTC()

	query := s.db.Rebind(`UPDATE api_docs
		SET title = ?, method = ?, uri = ?, description = ?, parameters = ?, response = ?, updated_at = ?
		WHERE id = ?`)

	result, err := s.db.ExecContext(ctx, query,
		doc.Title, doc.Method, doc.URI, doc.Description,
		doc.Parameters, doc.Response, doc.UpdatedAt, doc.ID)
	if err != nil {
		return fmt.Errorf("failed to update api doc %s: %w", doc.Identifier, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return &DocNotFoundError{Identifier: doc.Identifier, ID: doc.ID}
	}

	return nil
}

// ListDocs returns every record in ascending id order
func (s *SQLStore) ListDocs(ctx context.Context) ([]*ApiDoc, error) {
	docs := []*ApiDoc{}
	if err := s.db.SelectContext(ctx, &docs, `SELECT `+docColumns+` FROM api_docs ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("failed to list api docs: %w", err)
	}
	return docs, nil
}

// GetStats returns record counts and the most recent update time
func (s *SQLStore) GetStats(ctx context.Context) (*StorageStats, error) {
	stats := &StorageStats{Driver: string(s.dialect)}

	if err := s.db.GetContext(ctx, &stats.TotalDocs, `SELECT COUNT(*) FROM api_docs`); err != nil {
		return nil, fmt.Errorf("failed to count api docs: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.DocsWithResponse, `SELECT COUNT(*) FROM api_docs WHERE response IS NOT NULL`); err != nil {
		return nil, fmt.Errorf("failed to count captured responses: %w", err)
	}

	if stats.TotalDocs > 0 {
		err := s.db.GetContext(ctx, &stats.LastUpdated, `SELECT updated_at FROM api_docs ORDER BY updated_at DESC LIMIT 1`)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to read last update: %w", err)
		}
	}

	return stats, nil
}
