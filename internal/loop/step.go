package loop

import (
	"math"

	"github.com/tomz197/neoncatch/internal/object"
	"github.com/tomz197/neoncatch/internal/physics"
)

// World is everything one frame of simulation touches: the session scalars,
// the entity pool, the tuning and the random source.
type World struct {
	Tuning Tuning
	State  State
	Pool   *object.Pool
	Rand   object.Rand
}

// NewWorld creates an idle world with session values already reset.
func NewWorld(t Tuning, rng object.Rand) *World {
	w := &World{
		Tuning: t,
		Pool:   object.NewPool(),
		Rand:   rng,
	}
	w.Reset()
	return w
}

// Reset restores the session starting values and empties the pool.
// Best, Phase and Outcome are left untouched.
func (w *World) Reset() {
	w.State.TimeLeft = w.Tuning.TimeBudget
	w.State.Lives = w.Tuning.InitialLives
	w.State.Power = 0
	w.State.Combo = 0
	w.State.NewBest = false
	w.State.PlayerX = physics.Clamp(w.Tuning.PlayerStartX, 0, 1)
	w.State.spawnAcc = 0
	w.Pool.Clear()
}

// Elapsed returns the session time consumed so far.
func (w *World) Elapsed() float64 {
	return math.Max(0, w.Tuning.TimeBudget-w.State.TimeLeft)
}

// SpawnInterval is the current gap between spawns; it shrinks linearly with
// elapsed time down to the floor.
func (w *World) SpawnInterval() float64 {
	t := w.Tuning
	return math.Max(t.SpawnIntervalFloor, t.SpawnIntervalStart-w.Elapsed()*t.SpawnIntervalRamp)
}

// Step advances the world by dt seconds with the given steering axis
// (-1 left, 0 none, +1 right) and returns the catches resolved this step.
// dt is sanitized here, so callers may pass raw frame deltas.
func (w *World) Step(dt, axis float64) []Catch {
	t := w.Tuning
	s := &w.State
	dt = physics.ClampDelta(dt, t.MaxDelta)

	s.TimeLeft = math.Max(0, s.TimeLeft-dt)

	s.PlayerX = physics.Clamp(s.PlayerX+t.PlayerSpeed*dt*axis, 0, 1)

	s.spawnAcc += dt
	if s.spawnAcc >= w.SpawnInterval() {
		s.spawnAcc = 0
		w.SpawnToken()
	}

	w.Pool.AdvanceTokens(dt)
	w.Pool.AdvanceParticles(dt, t.ParticleGravity)
	w.Pool.AdvanceTexts(dt, t.TextRise)

	catches := w.Resolve()

	// Anything caught is already gone, so this only drops misses.
	w.Pool.RemoveTokens(func(tok *object.Token) bool {
		return tok.Y >= t.BottomOut
	})

	return catches
}

// SpawnToken adds one token at the top with a random column, speed and
// category. Good/bad is drawn first, then the category within the set.
func (w *World) SpawnToken() object.ID {
	t := w.Tuning

	set := object.BadCategories
	if w.Rand.Float64() > t.BadChance {
		set = object.GoodCategories
	}
	category := set[pick(w.Rand.Float64(), len(set))]

	x := w.Rand.Float64()
	vy := t.FallSpeedMin + w.Rand.Float64()*(t.FallSpeedMax-t.FallSpeedMin)

	return w.Pool.AddToken(x, t.SpawnY, vy, category)
}

// pick maps r in [0,1) to an index in [0,n).
func pick(r float64, n int) int {
	i := int(r * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
