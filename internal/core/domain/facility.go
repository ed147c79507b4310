package domain

import (
	"github.com/paulmach/orb/geojson"
)

// Property keys of the facility (ghg) feature collection. Upstream
// cleaning guarantees the keys exist but not that values are usable:
// quantities may be null or negative, subparts free-text.
const (
	PropFacilityName  = "facility_name"
	PropSubparts      = "subparts"
	PropQuantity      = "ghg_quantity_metric_tons_co2e"
	PropRadiusM       = "radius_m"
	PropReportingYear = "reporting_year"
)

// Facility is the typed view of one facility feature's properties.
type Facility struct {
	Name          string
	Subparts      string
	Quantity      *float64 // nil when missing, null, or negative
	RadiusM       float64
	ReportingYear int
}

// FacilityFromProperties extracts a Facility from a raw property bag.
// Total: malformed values degrade to zero values, never an error.
func FacilityFromProperties(props geojson.Properties) Facility {
	f := Facility{
		Name:     asString(props[PropFacilityName]),
		Subparts: asString(props[PropSubparts]),
		RadiusM:  asFloat(props[PropRadiusM]),
	}
	if q, ok := props[PropQuantity]; ok {
		if v, ok := toFloat(q); ok && v >= 0 {
			f.Quantity = &v
		}
	}
	f.ReportingYear = int(asFloat(props[PropReportingYear]))
	return f
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	f, _ := toFloat(v)
	return f
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
