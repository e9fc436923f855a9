package object

import "math"

// FloatingText is a transient feedback label, e.g. "+10 POWER ×2".
type FloatingText struct {
	ID      ID
	X, Y    float64
	Value   string
	Life    float64 // Seconds remaining
	MaxLife float64
}

// Advance lifts the text by rise units/sec and burns lifetime.
// Returns false once the text has expired.
func (t *FloatingText) Advance(dt, rise float64) bool {
	t.Y -= rise * dt
	t.Life -= dt
	return t.Life > 0
}

// Opacity is fully visible until the last second of life, then fades.
func (t *FloatingText) Opacity() float64 {
	return math.Max(0, math.Min(1, t.Life))
}
