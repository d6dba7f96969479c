package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are stored JSON-encoded; Get returns the encoded bytes.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogRepository is the read-only view of the enriched catalog
type CatalogRepository interface {
	All() []Product
	FindByID(id string) (*Product, error)
	FindByURL(link string) (*Product, error)
	FilterOptions() FilterOptions
}

// CatalogSink persists a fully built catalog.
// Save is only called once the whole product list is ready.
type CatalogSink interface {
	Name() string
	Save(ctx context.Context, products []Product, options FilterOptions) error
}
