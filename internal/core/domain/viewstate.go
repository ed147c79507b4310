package domain

// ViewState is the camera state exchanged with the render engine. The
// constrained value returned by the viewport service is the only one
// ever fed back into the renderer.
type ViewState struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Zoom      float64 `json:"zoom"`
	Pitch     float64 `json:"pitch"`
	Bearing   float64 `json:"bearing"`
	MinZoom   float64 `json:"min_zoom,omitempty"`
	MaxZoom   float64 `json:"max_zoom,omitempty"`
}

// ViewportProfile is the fixed interaction envelope of a deployment:
// how far panning may leave the manifest bounds and which zoom range is
// allowed. Documented per deployment, never computed.
type ViewportProfile struct {
	PadDegrees  float64 `json:"pad_degrees"`
	MinZoom     float64 `json:"min_zoom"`
	MaxZoom     float64 `json:"max_zoom"`
	InitialZoom float64 `json:"initial_zoom"`
	Pitch       float64 `json:"pitch"`
}
