package usecases

import (
	"ghgdeck/internal/core/domain"
	"ghgdeck/internal/pkg/geospatial"
)

// ViewportService clamps proposed view states to the padded manifest
// bounds and the deployment's zoom range. It runs on every interactive
// view-change event, so it is pure, synchronous, and total: values are
// clamped, never rejected.
type ViewportService struct {
	profile domain.ViewportProfile
}

// NewViewportService creates a viewport service for one deployment
// profile.
func NewViewportService(profile domain.ViewportProfile) *ViewportService {
	return &ViewportService{profile: profile}
}

// Profile returns the deployment profile.
func (s *ViewportService) Profile() domain.ViewportProfile {
	return s.profile
}

// Clamp returns a view state within the padded bounds and zoom range,
// however far out of range the input is.
func (s *ViewportService) Clamp(view domain.ViewState, bounds domain.Bounds) domain.ViewState {
	minLon, maxLon := geospatial.Pad(bounds.MinLon(), bounds.MaxLon(), s.profile.PadDegrees)
	minLat, maxLat := geospatial.Pad(bounds.MinLat(), bounds.MaxLat(), s.profile.PadDegrees)

	view.Longitude = geospatial.Clamp(view.Longitude, minLon, maxLon)
	view.Latitude = geospatial.Clamp(view.Latitude, minLat, maxLat)
	view.Zoom = geospatial.Clamp(view.Zoom, s.profile.MinZoom, s.profile.MaxZoom)
	view.MinZoom = s.profile.MinZoom
	view.MaxZoom = s.profile.MaxZoom
	return view
}

// InitialView builds the first camera state for a manifest: centered,
// level bearing. An earlier render variant shipped with a broken
// bearing assignment; zero is the corrected behavior.
func (s *ViewportService) InitialView(m *domain.Manifest) domain.ViewState {
	view := domain.ViewState{
		Zoom:    s.profile.InitialZoom,
		Pitch:   s.profile.Pitch,
		Bearing: 0,
		MinZoom: s.profile.MinZoom,
		MaxZoom: s.profile.MaxZoom,
	}
	if m != nil && m.Center != nil {
		view.Longitude = m.Center.Lon()
		view.Latitude = m.Center.Lat()
	}
	if m != nil && m.Bounds != nil {
		return s.Clamp(view, *m.Bounds)
	}
	return view
}
