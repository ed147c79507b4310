package usecases

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"ghgdeck/internal/core/domain"
)

// FacilityStyle selects how the facility overlay is rendered. Both are
// configurations of the same layer, not separate composition paths.
type FacilityStyle string

const (
	// FacilityCircles renders uniform-color circular markers sized
	// from the radius_m property (meters).
	FacilityCircles FacilityStyle = "circle"

	// FacilityIcons renders one per-facility icon resolved from the
	// subpart table, sized from a clamped square-root scaling of
	// radius_m (display pixels).
	FacilityIcons FacilityStyle = "icon"
)

// Facility icon display size envelope in pixels.
const (
	facilityIconMinPx = 16
	facilityIconMaxPx = 72
)

// ComposeOptions are the capability flags that select between the
// historical render variants.
type ComposeOptions struct {
	MaskEnabled   bool
	FacilityStyle FacilityStyle

	// ReportingYear keeps only facility features of this year when
	// positive and the features carry a reporting_year property.
	ReportingYear int
}

// TerrainSources are the {z}/{x}/{y} tile templates of the external
// elevation and texture services.
type TerrainSources struct {
	ElevationTiles string
	TextureTiles   string
}

// defaultStyleTable fixes color, stroke, and pickability per layer id.
// Reference overlays are listed in increasing visual prominence.
var defaultStyleTable = map[string]domain.LayerStyle{
	domain.LayerIDMask: {
		FillColor: "#000000",
		Opacity:   1,
	},
	domain.LayerIDTerrain: {
		Opacity: 1,
	},
	domain.LayerIDBoundary: {
		LineColor: "#dbe8f5",
		LineWidth: 1.6,
		Opacity:   0.9,
	},
	domain.LayerIDPipelines: {
		LineColor: "#8d6e63",
		LineWidth: 0.8,
		Opacity:   0.35,
	},
	domain.LayerIDRailroads: {
		LineColor: "#78909c",
		LineWidth: 0.9,
		Opacity:   0.4,
	},
	domain.LayerIDPrimaryRoads: {
		LineColor: "#90a4ae",
		LineWidth: 1.1,
		Opacity:   0.5,
	},
	domain.LayerIDIncorporatedPlaces: {
		FillColor: "#b0bec5",
		LineColor: "#b0bec5",
		LineWidth: 0.6,
		Opacity:   0.55,
	},
	domain.LayerIDPrincipalPorts: {
		PointColor:    "#4fc3f7",
		PointRadiusPx: 5,
		Opacity:       0.85,
	},
	domain.LayerIDFacilities: {
		PointColor: "#ffb74d",
		Opacity:    0.9,
	},
}

// ComposerService turns a validated manifest plus loaded data into the
// ordered layer sequence the render engine consumes.
type ComposerService struct {
	terrain TerrainSources
	styles  map[string]domain.LayerStyle
}

// NewComposerService creates a composer with the fixed style table.
func NewComposerService(terrain TerrainSources) *ComposerService {
	return &ComposerService{
		terrain: terrain,
		styles:  defaultStyleTable,
	}
}

// Compose builds the layer list. Ordering is fixed: the mask must
// precede what it clips, terrain must sit under the boundary outline,
// and overlays draw in increasing prominence with facilities on top.
// Fails with a config error when the manifest misses a required field
// or the facility variant lacks its pre-fetched collection.
func (s *ComposerService) Compose(
	m *domain.Manifest,
	data map[string]*geojson.FeatureCollection,
	icons *IconResolver,
	opts ComposeOptions,
) ([]domain.LayerDescriptor, error) {
	if m == nil {
		return nil, domain.ConfigErrorf("manifest is nil")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	layers := make([]domain.LayerDescriptor, 0, 9)

	if opts.MaskEnabled {
		layers = append(layers, domain.LayerDescriptor{
			ID:     domain.LayerIDMask,
			Kind:   domain.LayerKindMask,
			Source: s.vectorSource(m, data, domain.FileBoundary),
			Style:  s.styles[domain.LayerIDMask],
		})
	}

	terrainStyle := s.styles[domain.LayerIDTerrain]
	terrainStyle.Exaggeration = m.Exaggeration()
	if opts.MaskEnabled {
		terrainStyle.ClipTo = domain.LayerIDMask
	}
	layers = append(layers, domain.LayerDescriptor{
		ID:   domain.LayerIDTerrain,
		Kind: domain.LayerKindTerrain,
		Source: domain.LayerSource{
			ElevationTiles: s.terrain.ElevationTiles,
			TextureTiles:   s.terrain.TextureTiles,
		},
		Style: terrainStyle,
	})

	layers = append(layers, domain.LayerDescriptor{
		ID:     domain.LayerIDBoundary,
		Kind:   domain.LayerKindVector,
		Source: s.vectorSource(m, data, domain.FileBoundary),
		Style:  s.styles[domain.LayerIDBoundary],
	})

	// Infrastructure overlays, least prominent first.
	for _, key := range []string{
		domain.FilePipelines,
		domain.FileRailroads,
		domain.FilePrimaryRoads,
		domain.FileIncorporatedPlaces,
	} {
		layers = append(layers, domain.LayerDescriptor{
			ID:          key,
			Kind:        domain.LayerKindVector,
			Source:      s.vectorSource(m, data, key),
			Style:       s.styles[key],
			Interactive: key == domain.FileIncorporatedPlaces,
		})
	}

	layers = append(layers, domain.LayerDescriptor{
		ID:          domain.LayerIDPrincipalPorts,
		Kind:        domain.LayerKindPoint,
		Source:      s.vectorSource(m, data, domain.FilePrincipalPorts),
		Style:       s.styles[domain.LayerIDPrincipalPorts],
		Interactive: true,
	})

	facility, err := s.facilityLayer(m, data, icons, opts)
	if err != nil {
		return nil, err
	}
	layers = append(layers, facility)

	return layers, nil
}

// vectorSource prefers pre-fetched data and falls back to the manifest
// path for engine-side fetching.
func (s *ComposerService) vectorSource(
	m *domain.Manifest,
	data map[string]*geojson.FeatureCollection,
	key string,
) domain.LayerSource {
	if fc := data[key]; fc != nil {
		return domain.LayerSource{Data: fc}
	}
	return domain.LayerSource{Path: m.Files[key]}
}

func (s *ComposerService) facilityLayer(
	m *domain.Manifest,
	data map[string]*geojson.FeatureCollection,
	icons *IconResolver,
	opts ComposeOptions,
) (domain.LayerDescriptor, error) {
	style := s.styles[domain.LayerIDFacilities]

	if opts.FacilityStyle != FacilityIcons {
		return domain.LayerDescriptor{
			ID:          domain.LayerIDFacilities,
			Kind:        domain.LayerKindPoint,
			Source:      s.vectorSource(m, data, domain.FileGHG),
			Style:       style,
			Interactive: true,
		}, nil
	}

	fc := data[domain.FileGHG]
	if fc == nil {
		return domain.LayerDescriptor{}, domain.ConfigErrorf(
			"facility icon styling requires the %s collection to be pre-fetched", domain.FileGHG)
	}
	if icons == nil {
		return domain.LayerDescriptor{}, domain.ConfigErrorf("facility icon styling requires an icon resolver")
	}

	return domain.LayerDescriptor{
		ID:          domain.LayerIDFacilities,
		Kind:        domain.LayerKindIcon,
		Source:      domain.LayerSource{Data: s.annotateFacilities(fc, icons, opts)},
		Style:       style,
		Interactive: true,
	}, nil
}

// annotateFacilities builds a fresh collection where every facility
// feature carries its resolved icon and display size. The input
// collection is never mutated.
func (s *ComposerService) annotateFacilities(
	fc *geojson.FeatureCollection,
	icons *IconResolver,
	opts ComposeOptions,
) *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	for _, feat := range fc.Features {
		if feat == nil {
			continue
		}
		if _, ok := feat.Geometry.(orb.Point); !ok {
			continue
		}
		fac := domain.FacilityFromProperties(feat.Properties)
		if opts.ReportingYear > 0 && fac.ReportingYear > 0 && fac.ReportingYear != opts.ReportingYear {
			continue
		}

		annotated := geojson.NewFeature(feat.Geometry)
		for k, v := range feat.Properties {
			annotated.Properties[k] = v
		}
		annotated.Properties["icon"] = icons.Resolve(fac.Subparts)
		annotated.Properties["size_px"] = facilityIconSize(fac.RadiusM)
		out.Append(annotated)
	}
	return out
}

// facilityIconSize maps the upstream radius_m (meters) onto a clamped
// square-root pixel scale so small emitters stay legible and the
// largest do not swallow the map.
func facilityIconSize(radiusM float64) float64 {
	if radiusM <= 0 {
		return facilityIconMinPx
	}
	size := math.Sqrt(radiusM)
	if size < facilityIconMinPx {
		return facilityIconMinPx
	}
	if size > facilityIconMaxPx {
		return facilityIconMaxPx
	}
	return size
}
