package domain

import (
	"errors"
	"fmt"
)

// The three failure classes of a load cycle. All are terminal for the
// cycle: they propagate to the error surface, never retried here.
var (
	// ErrLoad marks a transport failure or non-success response while
	// fetching the manifest or a feature collection.
	ErrLoad = errors.New("load failed")

	// ErrParse marks a response body that is not valid JSON/GeoJSON.
	ErrParse = errors.New("parse failed")

	// ErrConfig marks a manifest that is present but missing a field
	// required for composition.
	ErrConfig = errors.New("manifest config invalid")
)

// LoadErrorf wraps a formatted message with ErrLoad.
func LoadErrorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrLoad)
}

// ParseErrorf wraps a formatted message with ErrParse.
func ParseErrorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrParse)
}

// ConfigErrorf wraps a formatted message with ErrConfig.
func ConfigErrorf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConfig)
}
