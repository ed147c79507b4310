package domain

import (
	"time"

	"github.com/paulmach/orb/geojson"
)

// LayerKind classifies what the render engine does with a layer.
type LayerKind string

const (
	LayerKindMask    LayerKind = "mask"
	LayerKindTerrain LayerKind = "terrain"
	LayerKindVector  LayerKind = "vector"
	LayerKindPoint   LayerKind = "point"
	LayerKindIcon    LayerKind = "icon"
)

// Layer ids, fixed per composition. The facility overlay reuses the
// "ghg" files key so pick events map back without a lookup table.
const (
	LayerIDMask               = "boundary-mask"
	LayerIDTerrain            = "terrain"
	LayerIDBoundary           = "boundary"
	LayerIDPipelines          = "pipelines"
	LayerIDRailroads          = "railroads"
	LayerIDPrimaryRoads       = "primary_roads"
	LayerIDIncorporatedPlaces = "incorporated_places"
	LayerIDPrincipalPorts     = "principal_ports"
	LayerIDFacilities         = "ghg"
)

// LayerSource tells the engine where a layer's data comes from: an
// inline pre-fetched collection, a path to fetch lazily, or tile
// templates for the terrain layer. Exactly one form is populated.
type LayerSource struct {
	Path string                     `json:"path,omitempty"`
	Data *geojson.FeatureCollection `json:"data,omitempty"`

	ElevationTiles string `json:"elevation_tiles,omitempty"`
	TextureTiles   string `json:"texture_tiles,omitempty"`
}

// LayerStyle is the fixed per-layer-id styling handed to the engine.
// Values come from the composer's style table, never computed ad hoc.
type LayerStyle struct {
	FillColor string  `json:"fill_color,omitempty"`
	LineColor string  `json:"line_color,omitempty"`
	LineWidth float64 `json:"line_width,omitempty"`
	Opacity   float64 `json:"opacity,omitempty"`

	// Point overlays.
	PointColor    string  `json:"point_color,omitempty"`
	PointRadiusPx float64 `json:"point_radius_px,omitempty"`

	// Terrain only.
	Exaggeration float64 `json:"exaggeration,omitempty"`

	// Clip against the mask layer when set.
	ClipTo string `json:"clip_to,omitempty"`
}

// LayerDescriptor is one entry of the composed layer sequence. Created
// fresh per composition pass and never mutated afterwards; the ordered
// slice is the sole artifact handed to the renderer.
type LayerDescriptor struct {
	ID          string      `json:"id"`
	Kind        LayerKind   `json:"kind"`
	Source      LayerSource `json:"source"`
	Style       LayerStyle  `json:"style"`
	Interactive bool        `json:"interactive"`
}

// Snapshot is the immutable result of one successful load cycle.
type Snapshot struct {
	Manifest         *Manifest         `json:"manifest"`
	Layers           []LayerDescriptor `json:"layers"`
	InitialViewState ViewState         `json:"initial_view_state"`
	Facilities       int               `json:"facilities"`
	LoadedAt         time.Time         `json:"loaded_at"`
}
