package domain

// IconDescriptor tells the engine which raster to draw for a facility
// marker. Width/height/anchor describe the icon atlas cell.
type IconDescriptor struct {
	URL     string `json:"url"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	AnchorY int    `json:"anchorY"`
}

// TooltipContent is what the host shows for a pick event. Title only
// for non-facility layers; facility picks carry detail lines.
type TooltipContent struct {
	Title string   `json:"title"`
	Lines []string `json:"lines,omitempty"`
}
