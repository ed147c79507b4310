package usecases_test

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"ghgdeck/internal/core/domain"
	"ghgdeck/internal/core/usecases"
)

func testManifest() *domain.Manifest {
	b := testBounds()
	center := domain.LonLat{-79.45, 37.85}
	files := make(map[string]string, len(domain.RequiredFiles))
	for _, key := range domain.RequiredFiles {
		files[key] = "data/" + key + ".geojson"
	}
	return &domain.Manifest{
		Files:  files,
		Bounds: &b,
		Center: &center,
	}
}

func testComposer() *usecases.ComposerService {
	return usecases.NewComposerService(usecases.TerrainSources{
		ElevationTiles: "https://tiles.example/elev/{z}/{x}/{y}.png",
		TextureTiles:   "https://tiles.example/tex/{z}/{x}/{y}.png",
	})
}

func facilityFeature(name, subparts string, radiusM float64, year int) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{-79.4, 37.8})
	f.Properties[domain.PropFacilityName] = name
	f.Properties[domain.PropSubparts] = subparts
	f.Properties[domain.PropRadiusM] = radiusM
	if year > 0 {
		f.Properties[domain.PropReportingYear] = float64(year)
	}
	return f
}

func ghgCollection(features ...*geojson.Feature) map[string]*geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f)
	}
	return map[string]*geojson.FeatureCollection{domain.FileGHG: fc}
}

func layerIDs(layers []domain.LayerDescriptor) []string {
	ids := make([]string, len(layers))
	for i, l := range layers {
		ids[i] = l.ID
	}
	return ids
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func TestCompose_Ordering(t *testing.T) {
	layers, err := testComposer().Compose(testManifest(), ghgCollection(), usecases.NewIconResolver(nil), usecases.ComposeOptions{
		MaskEnabled:   true,
		FacilityStyle: usecases.FacilityIcons,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := layerIDs(layers)
	order := []string{
		domain.LayerIDMask,
		domain.LayerIDTerrain,
		domain.LayerIDBoundary,
		domain.LayerIDPipelines,
		domain.LayerIDRailroads,
		domain.LayerIDPrimaryRoads,
		domain.LayerIDIncorporatedPlaces,
		domain.LayerIDPrincipalPorts,
		domain.LayerIDFacilities,
	}
	for i := 1; i < len(order); i++ {
		a, b := indexOf(ids, order[i-1]), indexOf(ids, order[i])
		if a < 0 || b < 0 {
			t.Fatalf("missing layer %s or %s in %v", order[i-1], order[i], ids)
		}
		if a >= b {
			t.Errorf("%s must precede %s, got %v", order[i-1], order[i], ids)
		}
	}
}

func TestCompose_MaskDisabled(t *testing.T) {
	layers, err := testComposer().Compose(testManifest(), ghgCollection(), usecases.NewIconResolver(nil), usecases.ComposeOptions{
		MaskEnabled:   false,
		FacilityStyle: usecases.FacilityCircles,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := layerIDs(layers)
	if indexOf(ids, domain.LayerIDMask) >= 0 {
		t.Errorf("mask present with masking disabled: %v", ids)
	}

	for _, l := range layers {
		if l.ID == domain.LayerIDTerrain && l.Style.ClipTo != "" {
			t.Errorf("terrain clips to %q without a mask", l.Style.ClipTo)
		}
	}
}

func TestCompose_TerrainClipsToMask(t *testing.T) {
	layers, err := testComposer().Compose(testManifest(), nil, nil, usecases.ComposeOptions{
		MaskEnabled:   true,
		FacilityStyle: usecases.FacilityCircles,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, l := range layers {
		if l.ID == domain.LayerIDTerrain {
			if l.Style.ClipTo != domain.LayerIDMask {
				t.Errorf("terrain clip: got %q, want %q", l.Style.ClipTo, domain.LayerIDMask)
			}
			if l.Style.Exaggeration != domain.DefaultTerrainExaggeration {
				t.Errorf("exaggeration: got %v", l.Style.Exaggeration)
			}
			return
		}
	}
	t.Fatal("terrain layer missing")
}

func TestCompose_MissingBounds(t *testing.T) {
	m := testManifest()
	m.Bounds = nil

	_, err := testComposer().Compose(m, nil, nil, usecases.ComposeOptions{FacilityStyle: usecases.FacilityCircles})
	if !errors.Is(err, domain.ErrConfig) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestCompose_MissingFileKey(t *testing.T) {
	m := testManifest()
	delete(m.Files, domain.FilePipelines)

	_, err := testComposer().Compose(m, nil, nil, usecases.ComposeOptions{FacilityStyle: usecases.FacilityCircles})
	if !errors.Is(err, domain.ErrConfig) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestCompose_CircleVariant(t *testing.T) {
	layers, err := testComposer().Compose(testManifest(), nil, nil, usecases.ComposeOptions{
		FacilityStyle: usecases.FacilityCircles,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fac := layers[len(layers)-1]
	if fac.ID != domain.LayerIDFacilities {
		t.Fatalf("last layer: got %s", fac.ID)
	}
	if fac.Kind != domain.LayerKindPoint {
		t.Errorf("kind: got %s, want point", fac.Kind)
	}
	// Without pre-fetched data the engine fetches from the manifest path.
	if fac.Source.Path != "data/ghg.geojson" {
		t.Errorf("source path: got %q", fac.Source.Path)
	}
	if !fac.Interactive {
		t.Error("facility layer must be pickable")
	}
}

func TestCompose_IconVariantRequiresData(t *testing.T) {
	_, err := testComposer().Compose(testManifest(), nil, usecases.NewIconResolver(nil), usecases.ComposeOptions{
		FacilityStyle: usecases.FacilityIcons,
	})
	if !errors.Is(err, domain.ErrConfig) {
		t.Errorf("expected config error without ghg data, got %v", err)
	}
}

func TestCompose_IconVariantAnnotates(t *testing.T) {
	data := ghgCollection(
		facilityFeature("Plant A", "C,D", 900, 0),
		facilityFeature("Plant B", "ZZ", 0, 0),
	)

	layers, err := testComposer().Compose(testManifest(), data, usecases.NewIconResolver(nil), usecases.ComposeOptions{
		FacilityStyle: usecases.FacilityIcons,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fac := layers[len(layers)-1]
	if fac.Kind != domain.LayerKindIcon {
		t.Fatalf("kind: got %s, want icon", fac.Kind)
	}
	feats := fac.Source.Data.Features
	if len(feats) != 2 {
		t.Fatalf("expected 2 features, got %d", len(feats))
	}

	icn, ok := feats[0].Properties["icon"].(domain.IconDescriptor)
	if !ok {
		t.Fatalf("icon property missing: %+v", feats[0].Properties)
	}
	if icn.URL != "icons/power.jpg" {
		t.Errorf("C,D icon: got %s", icn.URL)
	}
	if size := feats[0].Properties["size_px"].(float64); size != 30 {
		t.Errorf("size for radius 900: got %v, want 30", size)
	}

	// Unknown subparts fall back; zero radius floors at the minimum.
	icn2 := feats[1].Properties["icon"].(domain.IconDescriptor)
	if icn2.URL != "icons/manufacturing.jpg" {
		t.Errorf("fallback icon: got %s", icn2.URL)
	}
	if size := feats[1].Properties["size_px"].(float64); size != 16 {
		t.Errorf("size floor: got %v, want 16", size)
	}

	// The input collection must stay untouched.
	if _, tainted := data[domain.FileGHG].Features[0].Properties["icon"]; tainted {
		t.Error("input collection was mutated")
	}
}

func TestCompose_IconSizeCeiling(t *testing.T) {
	data := ghgCollection(facilityFeature("Mega", "C", 1e6, 0))

	layers, err := testComposer().Compose(testManifest(), data, usecases.NewIconResolver(nil), usecases.ComposeOptions{
		FacilityStyle: usecases.FacilityIcons,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fac := layers[len(layers)-1]
	if size := fac.Source.Data.Features[0].Properties["size_px"].(float64); size != 72 {
		t.Errorf("size ceiling: got %v, want 72", size)
	}
}

func TestCompose_ReportingYearFilter(t *testing.T) {
	data := ghgCollection(
		facilityFeature("Old", "C", 100, 2019),
		facilityFeature("Current", "C", 100, 2023),
		facilityFeature("Unknown", "C", 100, 0),
	)

	layers, err := testComposer().Compose(testManifest(), data, usecases.NewIconResolver(nil), usecases.ComposeOptions{
		FacilityStyle: usecases.FacilityIcons,
		ReportingYear: 2023,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feats := layers[len(layers)-1].Source.Data.Features
	if len(feats) != 2 {
		t.Fatalf("expected 2 features (2023 + unknown year), got %d", len(feats))
	}
}
