package loop

import "github.com/tomz197/neoncatch/internal/object"

// Snapshot is everything the render surface needs for one frame.
type Snapshot struct {
	PlayerX   float64
	Tokens    []object.Token
	Particles []object.Particle
	Texts     []object.FloatingText

	Power      int
	TimeLeft   float64
	Lives      int
	Best       int
	Combo      int
	Multiplier int

	Phase   Phase
	Outcome Outcome
	NewBest bool
}

// Snapshot returns a copy of the current frame state.
func (c *Controller) Snapshot() Snapshot {
	var snap Snapshot
	c.SnapshotInto(&snap)
	return snap
}

// SnapshotInto copies the current frame state into dst, reusing its slices
// so a renderer can keep one snapshot alive across frames.
func (c *Controller) SnapshotInto(dst *Snapshot) {
	w := c.world
	s := w.State

	dst.PlayerX = s.PlayerX
	dst.Tokens = append(dst.Tokens[:0], w.Pool.Tokens...)
	dst.Particles = append(dst.Particles[:0], w.Pool.Particles...)
	dst.Texts = append(dst.Texts[:0], w.Pool.Texts...)

	dst.Power = s.Power
	dst.TimeLeft = s.TimeLeft
	dst.Lives = s.Lives
	dst.Best = s.Best
	dst.Combo = s.Combo
	dst.Multiplier = Multiplier(s.Combo, w.Tuning.ComboStep)

	dst.Phase = s.Phase
	dst.Outcome = s.Outcome
	dst.NewBest = s.NewBest
}
