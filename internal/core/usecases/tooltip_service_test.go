package usecases_test

import (
	"testing"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/language"

	"ghgdeck/internal/core/domain"
	"ghgdeck/internal/core/usecases"
)

func TestTooltipResolve_NoPick(t *testing.T) {
	svc := usecases.NewTooltipService(language.English)

	if got := svc.Resolve("", geojson.Properties{"a": 1}); got != nil {
		t.Errorf("expected nil for empty layer id, got %+v", got)
	}
	if got := svc.Resolve(domain.LayerIDFacilities, nil); got != nil {
		t.Errorf("expected nil for nil properties, got %+v", got)
	}
}

func TestTooltipResolve_NonFacilityLayer(t *testing.T) {
	svc := usecases.NewTooltipService(language.English)

	got := svc.Resolve(domain.LayerIDPrincipalPorts, geojson.Properties{"PORT_NAME": "Norfolk"})
	if got == nil {
		t.Fatal("expected content")
	}
	if got.Title != domain.LayerIDPrincipalPorts {
		t.Errorf("title: got %q, want %q", got.Title, domain.LayerIDPrincipalPorts)
	}
	if len(got.Lines) != 0 {
		t.Errorf("expected no detail lines, got %v", got.Lines)
	}
}

func TestTooltipResolve_Facility(t *testing.T) {
	svc := usecases.NewTooltipService(language.English)

	got := svc.Resolve(domain.LayerIDFacilities, geojson.Properties{
		domain.PropFacilityName: "Chesterfield Power Station",
		domain.PropSubparts:     "C,D",
		domain.PropQuantity:     1234567.4,
	})
	if got == nil {
		t.Fatal("expected content")
	}
	if got.Title != "Chesterfield Power Station" {
		t.Errorf("title: got %q", got.Title)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %v", got.Lines)
	}
	if got.Lines[0] != "Subparts: C,D" {
		t.Errorf("subparts line: got %q", got.Lines[0])
	}
	if got.Lines[1] != "GHG: 1,234,567 t CO2e" {
		t.Errorf("quantity line: got %q", got.Lines[1])
	}
}

func TestTooltipResolve_FacilityMissingFields(t *testing.T) {
	svc := usecases.NewTooltipService(language.English)

	got := svc.Resolve(domain.LayerIDFacilities, geojson.Properties{})
	if got == nil {
		t.Fatal("expected content")
	}
	if got.Title != "Facility" {
		t.Errorf("title: got %q, want Facility", got.Title)
	}
	if got.Lines[0] != "Subparts: N/A" {
		t.Errorf("subparts line: got %q", got.Lines[0])
	}
	if got.Lines[1] != "GHG: 0 t CO2e" {
		t.Errorf("quantity line: got %q", got.Lines[1])
	}
}

func TestTooltipFormatQuantity(t *testing.T) {
	svc := usecases.NewTooltipService(language.English)

	if got := svc.FormatQuantity(nil); got != "0" {
		t.Errorf("nil quantity: got %q, want 0", got)
	}

	q := 42.0
	if got := svc.FormatQuantity(&q); got != "42" {
		t.Errorf("42: got %q", got)
	}

	big := 9876543.21
	if got := svc.FormatQuantity(&big); got != "9,876,543" {
		t.Errorf("grouping: got %q", got)
	}
}

func TestTooltipResolve_NegativeQuantityRendersZero(t *testing.T) {
	svc := usecases.NewTooltipService(language.English)

	got := svc.Resolve(domain.LayerIDFacilities, geojson.Properties{
		domain.PropFacilityName: "Ghost Plant",
		domain.PropQuantity:     -5.0,
	})
	if got.Lines[1] != "GHG: 0 t CO2e" {
		t.Errorf("negative quantity line: got %q", got.Lines[1])
	}
}
