// Package physics provides overlap tests and clamping helpers.
package physics

import "math"

// InBand reports whether (px, py) lies strictly inside the axis-aligned band
// centered on (cx, cy) with half-extents halfW and halfH.
func InBand(px, py, cx, cy, halfW, halfH float64) bool {
	return math.Abs(px-cx) < halfW && math.Abs(py-cy) < halfH
}

// Clamp limits v to [lo, hi]. NaN collapses to lo.
func Clamp(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampDelta sanitizes a frame delta in seconds: negative, NaN and infinite
// values become 0, everything else is capped at maxDelta.
func ClampDelta(dt, maxDelta float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return 0
	}
	return math.Min(dt, maxDelta)
}
