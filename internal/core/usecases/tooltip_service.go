package usecases

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/paulmach/orb/geojson"

	"ghgdeck/internal/core/domain"
)

// TooltipService maps pick events to display content. Pure and
// synchronous: it runs inside the engine's hover callback.
type TooltipService struct {
	printer *message.Printer
}

// NewTooltipService creates a dispatcher formatting quantities for the
// given locale.
func NewTooltipService(tag language.Tag) *TooltipService {
	return &TooltipService{printer: message.NewPrinter(tag)}
}

// Resolve returns tooltip content for a picked object, or nil when
// nothing is picked. Facility picks get structured content; any other
// layer shows its id as plain text.
func (s *TooltipService) Resolve(layerID string, props geojson.Properties) *domain.TooltipContent {
	if layerID == "" || props == nil {
		return nil
	}

	if layerID != domain.LayerIDFacilities {
		return &domain.TooltipContent{Title: layerID}
	}

	fac := domain.FacilityFromProperties(props)
	name := fac.Name
	if name == "" {
		name = "Facility"
	}
	subparts := fac.Subparts
	if subparts == "" {
		subparts = "N/A"
	}

	return &domain.TooltipContent{
		Title: name,
		Lines: []string{
			"Subparts: " + subparts,
			"GHG: " + s.FormatQuantity(fac.Quantity) + " t CO2e",
		},
	}
}

// FormatQuantity renders a metric-ton quantity with locale-aware
// thousands grouping and no decimal places. Missing (null or negative
// upstream) quantities render as "0".
func (s *TooltipService) FormatQuantity(q *float64) string {
	if q == nil {
		return "0"
	}
	return s.printer.Sprint(number.Decimal(*q, number.MaxFractionDigits(0)))
}
