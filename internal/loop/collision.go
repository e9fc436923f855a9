package loop

import (
	"fmt"

	"github.com/tomz197/neoncatch/internal/object"
	"github.com/tomz197/neoncatch/internal/physics"
)

// Catch describes one token caught by the player.
type Catch struct {
	Token      object.Token
	Gain       int // Power gained, 0 for bad tokens
	Multiplier int // Multiplier at the start of the step
}

// Resolve applies every token inside the player's hitbox band and removes
// them in one batch afterwards. Every good catch in a step scores with the
// multiplier in effect when the step began, so gains do not depend on pool
// order. Combo updates still apply one catch at a time.
func (w *World) Resolve() []Catch {
	t := w.Tuning
	s := &w.State

	mult := Multiplier(s.Combo, t.ComboStep)

	var catches []Catch
	var caught []object.ID
	for i := range w.Pool.Tokens {
		tok := w.Pool.Tokens[i]
		if !physics.InBand(tok.X, tok.Y, s.PlayerX, t.HitboxY, t.HitboxHalfWidth, t.HitboxHalfHeight) {
			continue
		}
		caught = append(caught, tok.ID)
		catches = append(catches, w.applyCatch(tok, mult))
	}

	w.Pool.RemoveTokenIDs(caught)
	return catches
}

// applyCatch scores one token with mult and emits its feedback text and burst.
func (w *World) applyCatch(tok object.Token, mult int) Catch {
	t := w.Tuning
	s := &w.State

	c := Catch{Token: tok, Multiplier: mult}

	if tok.Good {
		c.Gain = t.PointsPerCatch * mult
		s.Power += c.Gain
		s.Combo++
		w.Pool.AddText(tok.X, tok.Y, fmt.Sprintf("+%d POWER ×%d", c.Gain, mult), t.TextLife)
	} else {
		s.Lives = max(0, s.Lives-1)
		s.Combo = 0
		w.Pool.AddText(tok.X, tok.Y, "-life", t.TextLife)
	}

	object.SpawnBurst(w.Pool, tok.X, tok.Y, object.Burst{
		Count:    t.BurstCount,
		SpeedMin: t.BurstSpeedMin,
		SpeedMax: t.BurstSpeedMax,
		LifeMin:  t.BurstLifeMin,
		LifeMax:  t.BurstLifeMax,
	}, w.Rand)

	return c
}
