package loop

import (
	"errors"
	"fmt"
)

// Tuning holds every gameplay constant. Positions and speeds are in
// normalized units (the playfield is the unit square, y grows downward),
// times in seconds.
type Tuning struct {
	// Session
	TimeBudget   float64 `toml:"time_budget"`
	InitialLives int     `toml:"initial_lives"`
	MaxDelta     float64 `toml:"max_delta"` // Per-tick catch-up cap

	// Player
	PlayerStartX float64 `toml:"player_start_x"`
	PlayerSpeed  float64 `toml:"player_speed"`

	// Spawning: interval = max(floor, start - elapsed*ramp)
	SpawnIntervalStart float64 `toml:"spawn_interval_start"`
	SpawnIntervalFloor float64 `toml:"spawn_interval_floor"`
	SpawnIntervalRamp  float64 `toml:"spawn_interval_ramp"`
	BadChance          float64 `toml:"bad_chance"`
	SpawnY             float64 `toml:"spawn_y"`
	FallSpeedMin       float64 `toml:"fall_speed_min"`
	FallSpeedMax       float64 `toml:"fall_speed_max"`
	BottomOut          float64 `toml:"bottom_out"`

	// Hitbox band around the player
	HitboxY          float64 `toml:"hitbox_y"`
	HitboxHalfHeight float64 `toml:"hitbox_half_height"`
	HitboxHalfWidth  float64 `toml:"hitbox_half_width"`

	// Scoring
	PointsPerCatch int `toml:"points_per_catch"`
	ComboStep      int `toml:"combo_step"` // Catches per multiplier level

	// Effects
	BurstCount      int     `toml:"burst_count"`
	BurstSpeedMin   float64 `toml:"burst_speed_min"`
	BurstSpeedMax   float64 `toml:"burst_speed_max"`
	BurstLifeMin    float64 `toml:"burst_life_min"`
	BurstLifeMax    float64 `toml:"burst_life_max"`
	ParticleGravity float64 `toml:"particle_gravity"`
	TextRise        float64 `toml:"text_rise"`
	TextLife        float64 `toml:"text_life"`
}

// DefaultTuning returns the stock balance.
func DefaultTuning() Tuning {
	return Tuning{
		TimeBudget:   60,
		InitialLives: 3,
		MaxDelta:     0.05,

		PlayerStartX: 0.5,
		PlayerSpeed:  1.1,

		SpawnIntervalStart: 1.1,
		SpawnIntervalFloor: 0.4,
		SpawnIntervalRamp:  0.018,
		BadChance:          0.28,
		SpawnY:             -0.1,
		FallSpeedMin:       0.3,
		FallSpeedMax:       0.6,
		BottomOut:          1.12,

		HitboxY:          0.88,
		HitboxHalfHeight: 0.04,
		HitboxHalfWidth:  0.08,

		PointsPerCatch: 5,
		ComboStep:      5,

		BurstCount:      12,
		BurstSpeedMin:   0.8,
		BurstSpeedMax:   2.2,
		BurstLifeMin:    0.6,
		BurstLifeMax:    1.1,
		ParticleGravity: 0.5,
		TextRise:        0.25,
		TextLife:        1.1,
	}
}

// Validate reports every inconsistent setting at once.
func (t Tuning) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	ordered := func(name string, lo, hi float64) {
		if lo > hi {
			errs = append(errs, fmt.Errorf("%s range is inverted: %v > %v", name, lo, hi))
		}
	}

	positive("time_budget", t.TimeBudget)
	positive("max_delta", t.MaxDelta)
	positive("player_speed", t.PlayerSpeed)
	positive("spawn_interval_floor", t.SpawnIntervalFloor)
	positive("fall_speed_min", t.FallSpeedMin)
	positive("hitbox_half_height", t.HitboxHalfHeight)
	positive("hitbox_half_width", t.HitboxHalfWidth)
	positive("text_life", t.TextLife)

	ordered("spawn_interval", t.SpawnIntervalFloor, t.SpawnIntervalStart)
	ordered("fall_speed", t.FallSpeedMin, t.FallSpeedMax)
	ordered("burst_speed", t.BurstSpeedMin, t.BurstSpeedMax)
	ordered("burst_life", t.BurstLifeMin, t.BurstLifeMax)

	if t.InitialLives < 1 {
		errs = append(errs, fmt.Errorf("initial_lives must be at least 1, got %d", t.InitialLives))
	}
	if t.PointsPerCatch < 0 {
		errs = append(errs, fmt.Errorf("points_per_catch must not be negative, got %d", t.PointsPerCatch))
	}
	if t.ComboStep < 1 {
		errs = append(errs, fmt.Errorf("combo_step must be at least 1, got %d", t.ComboStep))
	}
	if t.BurstCount < 0 {
		errs = append(errs, fmt.Errorf("burst_count must not be negative, got %d", t.BurstCount))
	}
	if t.BadChance < 0 || t.BadChance > 1 {
		errs = append(errs, fmt.Errorf("bad_chance must be within [0,1], got %v", t.BadChance))
	}
	if t.PlayerStartX < 0 || t.PlayerStartX > 1 {
		errs = append(errs, fmt.Errorf("player_start_x must be within [0,1], got %v", t.PlayerStartX))
	}
	if t.BottomOut <= t.HitboxY {
		errs = append(errs, fmt.Errorf("bottom_out %v must be below hitbox_y %v", t.BottomOut, t.HitboxY))
	}

	return errors.Join(errs...)
}
