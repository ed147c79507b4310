package source_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ghgdeck/internal/adapters/source"
	"ghgdeck/internal/core/domain"
)

const manifestJSON = `{
	"files": {
		"boundary": "data/boundary.geojson",
		"pipelines": "data/pipelines.geojson",
		"railroads": "data/railroads.geojson",
		"primary_roads": "data/primary_roads.geojson",
		"incorporated_places": "data/incorporated_places.geojson",
		"principal_ports": "data/principal_ports.geojson",
		"ghg": "data/ghg.geojson"
	},
	"bounds": [-83.68, 36.54, -75.17, 39.47],
	"center": [-79.45, 37.85],
	"terrain_exaggeration": 2.0
}`

const collectionJSON = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-79.4, 37.8]},
		 "properties": {"facility_name": "Plant A", "subparts": "C", "radius_m": 400}}
	]
}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/manifest.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(manifestJSON))
	})
	mux.HandleFunc("/data/ghg.geojson", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(collectionJSON))
	})
	mux.HandleFunc("/broken.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"files": [not json`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSource_Manifest(t *testing.T) {
	srv := testServer(t)
	src := source.New(srv.URL, 5*time.Second)

	m, err := src.Manifest(context.Background(), "manifest.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("manifest should validate: %v", err)
	}
	if m.TerrainExaggeration != 2.0 {
		t.Errorf("exaggeration: got %v", m.TerrainExaggeration)
	}
	if m.Files[domain.FileGHG] != "data/ghg.geojson" {
		t.Errorf("ghg path: got %q", m.Files[domain.FileGHG])
	}
}

func TestHTTPSource_FeatureCollection(t *testing.T) {
	srv := testServer(t)
	src := source.New(srv.URL, 5*time.Second)

	fc, err := src.FeatureCollection(context.Background(), "data/ghg.geojson")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	fac := domain.FacilityFromProperties(fc.Features[0].Properties)
	if fac.Name != "Plant A" || fac.RadiusM != 400 {
		t.Errorf("unexpected facility: %+v", fac)
	}
}

func TestHTTPSource_NotFoundIsLoadError(t *testing.T) {
	srv := testServer(t)
	src := source.New(srv.URL, 5*time.Second)

	_, err := src.Manifest(context.Background(), "missing.json")
	if !errors.Is(err, domain.ErrLoad) {
		t.Errorf("expected load error for 404, got %v", err)
	}
}

func TestHTTPSource_MalformedBodyIsParseError(t *testing.T) {
	srv := testServer(t)
	src := source.New(srv.URL, 5*time.Second)

	_, err := src.Manifest(context.Background(), "broken.json")
	if !errors.Is(err, domain.ErrParse) {
		t.Errorf("expected parse error, got %v", err)
	}

	_, err = src.FeatureCollection(context.Background(), "broken.json")
	if !errors.Is(err, domain.ErrParse) {
		t.Errorf("expected parse error for collection, got %v", err)
	}
}

func TestHTTPSource_ConnectionRefusedIsLoadError(t *testing.T) {
	src := source.New("http://127.0.0.1:1", 500*time.Millisecond)

	_, err := src.Manifest(context.Background(), "manifest.json")
	if !errors.Is(err, domain.ErrLoad) {
		t.Errorf("expected load error, got %v", err)
	}
}

func TestHTTPSource_AbsoluteURLPassthrough(t *testing.T) {
	srv := testServer(t)

	// Base points elsewhere; the absolute URL must win.
	src := source.New("http://127.0.0.1:1", 5*time.Second)
	m, err := src.Manifest(context.Background(), srv.URL+"/manifest.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Bounds == nil {
		t.Error("bounds missing")
	}
}
