package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/johnnynv/RouteScribe/pkg/types"
)

// Storage defines the interface for documentation record persistence
type Storage interface {
	// Lifecycle operations
	Initialize(ctx context.Context) error
	Close() error
	HealthCheck(ctx context.Context) error

	// Documentation records
	GetDocByIdentifier(ctx context.Context, identifier string) (*ApiDoc, error)
	GetDoc(ctx context.Context, id int64) (*ApiDoc, error)
	InsertDoc(ctx context.Context, doc *ApiDoc) error
	UpdateDoc(ctx context.Context, doc *ApiDoc) error
	ListDocs(ctx context.Context) ([]*ApiDoc, error)

	// Statistics operations
	GetStats(ctx context.Context) (*StorageStats, error)
}

// Factory creates storage instances based on configuration
type Factory struct{}

// NewFactory creates a new storage factory
func NewFactory() *Factory {
	return &Factory{}
}

// Create creates a storage instance based on configuration
func (f *Factory) Create(config *types.StorageConfig) (Storage, error) {
	switch config.Type {
	case "sqlite":
		return NewSQLiteStorage(&config.SQLite)
	case "postgres":
		return NewPostgresStorage(&config.Postgres)
	default:
		return nil, &UnsupportedStorageTypeError{Type: config.Type}
	}
}

// UnsupportedStorageTypeError is returned by Factory.Create
type UnsupportedStorageTypeError struct {
	Type string
}

func (e *UnsupportedStorageTypeError) Error() string {
	return "unsupported storage type: " + e.Type
}

// DocNotFoundError is returned when no record matches the lookup
type DocNotFoundError struct {
	Identifier string
	ID         int64
}

func (e *DocNotFoundError) Error() string {
	if e.Identifier != "" {
		return "api doc not found: " + e.Identifier
	}
	return fmt.Sprintf("api doc not found: %d", e.ID)
}

// DuplicateDocError is returned when an insert hits the unique identifier index
type DuplicateDocError struct {
	Identifier string
}

func (e *DuplicateDocError) Error() string {
	return "api doc already exists: " + e.Identifier
}

// IsNotFound reports whether err is a DocNotFoundError
func IsNotFound(err error) bool {
	var notFound *DocNotFoundError
	return errors.As(err, &notFound)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
