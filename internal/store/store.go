// Package store holds the document store adapters behind the catalog
// services: one Store per resource type, backed by gorm, redis or memory.
package store

import (
	"context"

	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/match"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/model"
)

// Store is the per-type document store contract.
type Store[T model.Document[T]] interface {
	FindAll(ctx context.Context) ([]T, error)
	// FindByID reports found=false, with a nil error, when no document has id.
	FindByID(ctx context.Context, id string) (T, bool, error)
	FindByExample(ctx context.Context, example T, mode match.Mode) ([]T, error)
	// Save assigns a new id when the document has none and replaces the
	// stored document otherwise.
	Save(ctx context.Context, doc T) (T, error)
	// DeleteByID is a no-op for unknown ids.
	DeleteByID(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

func fieldsOf[T model.Document[T]](doc T) []match.Field {
	return doc.Fields()
}

// Set bundles the stores of one backend.
type Set struct {
	Authors    Store[model.Author]
	Books      Store[model.Book]
	Publishers Store[model.Publisher]
	// Ping checks the backend is reachable.
	Ping func(ctx context.Context) error
	// Close releases backend connections.
	Close func() error
}
