package object

import "math"

// Particle is a short-lived fragment of a catch burst.
type Particle struct {
	ID      ID
	X, Y    float64 // Position
	VX, VY  float64 // Velocity
	Life    float64 // Seconds remaining
	MaxLife float64 // Initial lifetime (for fade calculation)
}

// Advance moves the particle, pulls it down by gravity and burns lifetime.
// Returns false once the particle has expired.
func (p *Particle) Advance(dt, gravity float64) bool {
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.VY += gravity * dt
	p.Life -= dt
	return p.Life > 0
}

// Fade returns the remaining fraction of the particle's lifetime in [0,1].
func (p *Particle) Fade() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, p.Life/p.MaxLife))
}

// Burst describes a radial particle explosion.
type Burst struct {
	Count    int
	SpeedMin float64
	SpeedMax float64
	LifeMin  float64
	LifeMax  float64
}

// SpawnBurst adds a circular burst of particles centered on (x, y).
// Each particle draws its direction, speed and lifetime from rng, in that order.
func SpawnBurst(pool *Pool, x, y float64, b Burst, rng Rand) {
	for i := 0; i < b.Count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		speed := b.SpeedMin + rng.Float64()*(b.SpeedMax-b.SpeedMin)
		life := b.LifeMin + rng.Float64()*(b.LifeMax-b.LifeMin)

		pool.AddParticle(x, y, math.Cos(angle)*speed, math.Sin(angle)*speed, life)
	}
}
