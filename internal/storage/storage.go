// Package storage persists feature records, one JSON file per feature.
package storage

import (
	"context"
	"time"

	"github.com/rumbolabs/rumbo/internal/types"
)

// Storage defines the interface for feature record backends.
type Storage interface {
	// Load returns the full feature record, or NotFoundError.
	Load(ctx context.Context, featureID string) (*types.Feature, error)

	// Save writes the full feature record atomically and refreshes
	// updated_at. Concurrent saves of the same feature id are
	// serialized; saves of different ids are independent.
	Save(ctx context.Context, feature *types.Feature) error

	// List enumerates feature summaries without exposing task detail.
	List(ctx context.Context) ([]*FeatureSummary, error)

	// Delete removes the feature record, or NotFoundError.
	Delete(ctx context.Context, featureID string) error

	// Close releases any held resources.
	Close() error
}

// FeatureSummary is the lightweight listing shape for enumeration.
type FeatureSummary struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Status    types.FeatureStatus `json:"status"`
	Progress  int                 `json:"progress"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Config holds storage configuration.
type Config struct {
	// Root is the tracker state directory. Feature records live in
	// <root>/features. Default: ".rumbo"
	Root string

	// LockStale is how old a lock held by a live process may be before
	// it is considered abandoned and taken over.
	LockStale time.Duration
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Root:      ".rumbo",
		LockStale: 10 * time.Minute,
	}
}

// NewStorage creates a file-backed storage rooted at cfg.Root.
func NewStorage(cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Root == "" {
		cfg.Root = ".rumbo"
	}
	if cfg.LockStale == 0 {
		cfg.LockStale = 10 * time.Minute
	}
	return newFileStore(cfg.Root, cfg.LockStale)
}
