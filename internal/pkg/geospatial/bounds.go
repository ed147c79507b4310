package geospatial

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Pad expands a [min, max] interval by pad on both sides.
func Pad(min, max, pad float64) (float64, float64) {
	return min - pad, max + pad
}
