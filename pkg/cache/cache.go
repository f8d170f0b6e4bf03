// Package cache provides caching for normalized figures and export
// artifacts.
//
// Rendering the same figure repeatedly is common in report generation, so
// the pipeline caches export artifacts keyed by a hash of the figure's
// canonical JSON form plus the export parameters. The cache holds bytes
// only: callers decide what to serialize into it.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface used by the pipeline.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases cache resources.
	Close() error
}

// ArtifactKeyOpts are the export parameters that distinguish artifacts
// produced from the same figure.
type ArtifactKeyOpts struct {
	Backend    string
	Format     string
	DPI        float64
	FontMode   string
	Standalone bool
	Static     bool
}

// Keyer generates cache keys. Implementations must be deterministic:
// the same inputs always produce the same key.
type Keyer interface {
	// FigureKey generates a key for a normalized figure snapshot.
	FigureKey(figureHash string) string

	// ArtifactKey generates a key for an export artifact.
	ArtifactKey(figureHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates hash-based keys with type prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// FigureKey generates a key for a normalized figure snapshot.
func (k *DefaultKeyer) FigureKey(figureHash string) string {
	return hashKey("figure", figureHash)
}

// ArtifactKey generates a key for an export artifact.
func (k *DefaultKeyer) ArtifactKey(figureHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", figureHash, opts)
}
