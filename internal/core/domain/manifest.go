package domain

import (
	"fmt"
	"time"
)

// Logical layer names that must appear in manifest.files. The build
// pipeline emits exactly this set, so composition can rely on it.
const (
	FileBoundary           = "boundary"
	FilePipelines          = "pipelines"
	FileRailroads          = "railroads"
	FilePrimaryRoads       = "primary_roads"
	FileIncorporatedPlaces = "incorporated_places"
	FilePrincipalPorts     = "principal_ports"
	FileGHG                = "ghg"
)

// RequiredFiles lists every files.* key a manifest must carry.
var RequiredFiles = []string{
	FileBoundary,
	FilePipelines,
	FileRailroads,
	FilePrimaryRoads,
	FileIncorporatedPlaces,
	FilePrincipalPorts,
	FileGHG,
}

// DefaultTerrainExaggeration is applied when the manifest omits the
// field or carries a non-positive value.
const DefaultTerrainExaggeration = 1.8

// Bounds is a [minLon, minLat, maxLon, maxLat] bounding box, the wire
// shape the build pipeline writes.
type Bounds [4]float64

func (b Bounds) MinLon() float64 { return b[0] }
func (b Bounds) MinLat() float64 { return b[1] }
func (b Bounds) MaxLon() float64 { return b[2] }
func (b Bounds) MaxLat() float64 { return b[3] }

// Valid reports whether the box spans a non-empty area.
func (b Bounds) Valid() bool {
	return b.MinLon() < b.MaxLon() && b.MinLat() < b.MaxLat()
}

// Contains reports whether a lon/lat point lies inside the box.
func (b Bounds) Contains(lon, lat float64) bool {
	return lon >= b.MinLon() && lon <= b.MaxLon() &&
		lat >= b.MinLat() && lat <= b.MaxLat()
}

// LonLat is a [lon, lat] coordinate pair.
type LonLat [2]float64

func (p LonLat) Lon() float64 { return p[0] }
func (p LonLat) Lat() float64 { return p[1] }

// IconsConfig is the optional icon-rule block of a manifest.
type IconsConfig struct {
	BaseDir    string            `json:"base_dir"`
	Default    string            `json:"default"`
	BySubparts map[string]string `json:"by_subparts"`
}

// Manifest is the root configuration document describing one render:
// layer data sources, region bounds, and icon rules.
type Manifest struct {
	Files               map[string]string `json:"files"`
	Bounds              *Bounds           `json:"bounds"`
	Center              *LonLat           `json:"center"`
	TerrainExaggeration float64           `json:"terrain_exaggeration"`
	Icons               *IconsConfig      `json:"icons,omitempty"`
}

// Validate rejects manifests that cannot drive a composition pass.
// Every failure wraps ErrConfig so callers can route it to the error
// surface with the right status.
func (m *Manifest) Validate() error {
	if m.Bounds == nil {
		return ConfigErrorf("manifest is missing bounds")
	}
	if !m.Bounds.Valid() {
		return ConfigErrorf("manifest bounds %v do not span an area", *m.Bounds)
	}
	if m.Center == nil {
		return ConfigErrorf("manifest is missing center")
	}
	if !m.Bounds.Contains(m.Center.Lon(), m.Center.Lat()) {
		return ConfigErrorf("manifest center %v lies outside bounds %v", *m.Center, *m.Bounds)
	}
	for _, key := range RequiredFiles {
		if m.Files[key] == "" {
			return ConfigErrorf("manifest is missing files.%s", key)
		}
	}
	return nil
}

// Exaggeration returns the terrain elevation scale, defaulted when the
// manifest omits it or carries a falsy value.
func (m *Manifest) Exaggeration() float64 {
	if m.TerrainExaggeration <= 0 {
		return DefaultTerrainExaggeration
	}
	return m.TerrainExaggeration
}

// ReloadEvent is published after every successful load cycle.
type ReloadEvent struct {
	ManifestPath string    `json:"manifest_path"`
	Layers       int       `json:"layers"`
	Facilities   int       `json:"facilities"`
	LoadedAt     time.Time `json:"loaded_at"`
}

// Subject returns the NATS subject for this event.
func (e *ReloadEvent) Subject() string {
	return "dashboard.reload"
}

func (e *ReloadEvent) String() string {
	return fmt.Sprintf("reload %s: %d layers, %d facilities", e.ManifestPath, e.Layers, e.Facilities)
}
