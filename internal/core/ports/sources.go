package ports

import (
	"context"

	"github.com/paulmach/orb/geojson"

	"ghgdeck/internal/core/domain"
)

// ManifestSource fetches the manifest and its referenced feature
// collections. No retries: a failure is terminal for the load cycle.
type ManifestSource interface {
	// Manifest fetches and decodes the root manifest document.
	Manifest(ctx context.Context, path string) (*domain.Manifest, error)

	// FeatureCollection fetches and decodes one GeoJSON collection.
	FeatureCollection(ctx context.Context, path string) (*geojson.FeatureCollection, error)
}
