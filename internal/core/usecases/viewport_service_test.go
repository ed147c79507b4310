package usecases_test

import (
	"testing"

	"ghgdeck/internal/core/domain"
	"ghgdeck/internal/core/usecases"
)

func testProfile() domain.ViewportProfile {
	return domain.ViewportProfile{
		PadDegrees:  0.5,
		MinZoom:     5,
		MaxZoom:     15,
		InitialZoom: 6.8,
		Pitch:       45,
	}
}

// Virginia-shaped box used across viewport tests.
func testBounds() domain.Bounds {
	return domain.Bounds{-83.68, 36.54, -75.17, 39.47}
}

func TestViewportClamp_InsideUnchanged(t *testing.T) {
	svc := usecases.NewViewportService(testProfile())

	in := domain.ViewState{Longitude: -78.5, Latitude: 37.5, Zoom: 8}
	out := svc.Clamp(in, testBounds())

	if out.Longitude != in.Longitude || out.Latitude != in.Latitude || out.Zoom != in.Zoom {
		t.Errorf("in-range view changed: %+v", out)
	}
	if out.MinZoom != 5 || out.MaxZoom != 15 {
		t.Errorf("zoom range not stamped: %+v", out)
	}
}

func TestViewportClamp_FarOutside(t *testing.T) {
	svc := usecases.NewViewportService(testProfile())

	out := svc.Clamp(domain.ViewState{Longitude: -60, Latitude: 50, Zoom: 20}, testBounds())

	if out.Longitude != -75.17+0.5 {
		t.Errorf("longitude: got %v, want %v", out.Longitude, -75.17+0.5)
	}
	if out.Latitude != 39.47+0.5 {
		t.Errorf("latitude: got %v, want %v", out.Latitude, 39.47+0.5)
	}
	if out.Zoom != 15 {
		t.Errorf("zoom: got %v, want 15", out.Zoom)
	}
}

func TestViewportClamp_ZoomBelowRange(t *testing.T) {
	svc := usecases.NewViewportService(testProfile())

	out := svc.Clamp(domain.ViewState{Longitude: -78, Latitude: 37, Zoom: 1}, testBounds())
	if out.Zoom != 5 {
		t.Errorf("zoom: got %v, want 5", out.Zoom)
	}
}

func TestViewportClamp_PadExtendsRange(t *testing.T) {
	svc := usecases.NewViewportService(testProfile())
	b := testBounds()

	// Half a degree beyond the edge is still allowed by the pad.
	out := svc.Clamp(domain.ViewState{Longitude: b.MinLon() - 0.4, Latitude: 37, Zoom: 8}, b)
	if out.Longitude != b.MinLon()-0.4 {
		t.Errorf("padded longitude clamped: got %v", out.Longitude)
	}
}

func TestViewportInitialView(t *testing.T) {
	svc := usecases.NewViewportService(testProfile())

	b := testBounds()
	center := domain.LonLat{-79.45, 37.85}
	m := &domain.Manifest{Bounds: &b, Center: &center}

	view := svc.InitialView(m)
	if view.Longitude != -79.45 || view.Latitude != 37.85 {
		t.Errorf("center: got (%v, %v)", view.Longitude, view.Latitude)
	}
	if view.Zoom != 6.8 {
		t.Errorf("zoom: got %v, want 6.8", view.Zoom)
	}
	if view.Pitch != 45 {
		t.Errorf("pitch: got %v, want 45", view.Pitch)
	}
	if view.Bearing != 0 {
		t.Errorf("bearing: got %v, want 0", view.Bearing)
	}
}

func TestViewportInitialView_NilManifest(t *testing.T) {
	svc := usecases.NewViewportService(testProfile())

	view := svc.InitialView(nil)
	if view.Zoom != 6.8 || view.Bearing != 0 {
		t.Errorf("unexpected view: %+v", view)
	}
}
