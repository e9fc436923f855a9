package loop

import (
	"testing"

	"github.com/tomz197/neoncatch/internal/object"
)

func TestGoodCatchUsesMultiplierBeforeIncrement(t *testing.T) {
	w := newTestWorld()
	w.State.Combo = 4
	addToken(w, 0.5, 0.88, object.CategoryHuman)

	catches := w.Resolve()

	if len(catches) != 1 {
		t.Fatalf("catches = %d, want 1", len(catches))
	}
	if w.State.Power != 5 || w.State.Combo != 5 {
		t.Fatalf("power=%d combo=%d, want 5 and 5", w.State.Power, w.State.Combo)
	}

	// Combo 5 now puts the next catch at x2.
	addToken(w, 0.5, 0.88, object.CategoryZK)
	w.Resolve()
	if w.State.Power != 15 || w.State.Combo != 6 {
		t.Fatalf("power=%d combo=%d, want 15 and 6", w.State.Power, w.State.Combo)
	}
	if got, want := w.Pool.Texts[len(w.Pool.Texts)-1].Value, "+10 POWER ×2"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestMultiplier(t *testing.T) {
	tests := []struct {
		combo, want int
	}{
		{0, 1}, {4, 1}, {5, 2}, {9, 2}, {10, 3}, {27, 6},
	}
	for _, tt := range tests {
		if got := Multiplier(tt.combo, 5); got != tt.want {
			t.Errorf("Multiplier(%d) = %d, want %d", tt.combo, got, tt.want)
		}
	}
}

func TestBadCatchResetsCombo(t *testing.T) {
	for _, combo := range []int{0, 3, 7, 42} {
		w := newTestWorld()
		w.State.Combo = combo
		w.State.Power = 20
		addToken(w, 0.5, 0.88, object.CategoryFake)

		catches := w.Resolve()

		s := w.State
		if s.Combo != 0 || s.Lives != 2 || s.Power != 20 {
			t.Errorf("combo %d: state = %+v, want combo 0, lives 2, power 20", combo, s)
		}
		if catches[0].Gain != 0 {
			t.Errorf("combo %d: bad catch gained %d", combo, catches[0].Gain)
		}
		if got := w.Pool.Texts[0].Value; got != "-life" {
			t.Errorf("combo %d: text = %q, want -life", combo, got)
		}
	}
}

func TestLivesNeverNegative(t *testing.T) {
	w := newTestWorld()
	w.State.Lives = 0
	addToken(w, 0.5, 0.88, object.CategorySybil)
	w.Resolve()
	if w.State.Lives != 0 {
		t.Fatalf("lives = %d, want 0", w.State.Lives)
	}
}

func TestSimultaneousCatchesShareStepMultiplier(t *testing.T) {
	w := newTestWorld()
	w.State.Combo = 4
	addToken(w, 0.45, 0.86, object.CategoryHuman)
	addToken(w, 0.55, 0.90, object.CategoryAI)
	addToken(w, 0.50, 0.88, object.CategorySybil)
	addToken(w, 0.50, 0.88, object.CategoryDiscord)
	addToken(w, 0.50, 0.88, object.CategoryFake)

	catches := w.Resolve()

	if len(catches) != 5 {
		t.Fatalf("catches = %d, want 5", len(catches))
	}
	// combo 4 at the start of the step: every good catch scores x1.
	// Combo still runs 4->5->6, SYBIL resets, DISCORD 0->1, FAKE resets.
	wantGains := []int{5, 5, 0, 5, 0}
	for i, c := range catches {
		if c.Gain != wantGains[i] {
			t.Errorf("catch %d (%s) gain = %d, want %d", i, c.Token.Category, c.Gain, wantGains[i])
		}
		if c.Multiplier != 1 {
			t.Errorf("catch %d multiplier = %d, want 1", i, c.Multiplier)
		}
	}
	s := w.State
	if s.Power != 15 || s.Combo != 0 || s.Lives != 1 {
		t.Errorf("state = %+v, want power 15, combo 0, lives 1", s)
	}
	if len(w.Pool.Tokens) != 0 {
		t.Errorf("tokens = %d, want all removed", len(w.Pool.Tokens))
	}
	if len(w.Pool.Texts) != 5 {
		t.Errorf("texts = %d, want 5", len(w.Pool.Texts))
	}
	if len(w.Pool.Particles) != 5*w.Tuning.BurstCount {
		t.Errorf("particles = %d, want %d", len(w.Pool.Particles), 5*w.Tuning.BurstCount)
	}
}

func TestSimultaneousCatchGainsIgnorePoolOrder(t *testing.T) {
	tests := []struct {
		name  string
		order []object.Category
	}{
		{"good first", []object.Category{object.CategoryHuman, object.CategoryFake, object.CategoryZK}},
		{"bad first", []object.Category{object.CategoryFake, object.CategoryHuman, object.CategoryZK}},
		{"bad last", []object.Category{object.CategoryHuman, object.CategoryZK, object.CategoryFake}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld()
			w.State.Combo = 9 // x2
			for _, c := range tt.order {
				addToken(w, 0.5, 0.88, c)
			}
			w.Resolve()
			if w.State.Power != 20 || w.State.Lives != 2 {
				t.Fatalf("power = %d lives = %d, want 20 and 2", w.State.Power, w.State.Lives)
			}
		})
	}
}

func TestOutsideBandIsNotCaught(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
	}{
		{"left edge", 0.41, 0.88},
		{"right", 0.6, 0.88},
		{"above", 0.5, 0.83},
		{"below", 0.5, 0.93},
		{"top of screen", 0.5, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld()
			addToken(w, tt.x, tt.y, object.CategoryHuman)
			if catches := w.Resolve(); len(catches) != 0 {
				t.Fatalf("caught token at (%v,%v)", tt.x, tt.y)
			}
			if len(w.Pool.Tokens) != 1 {
				t.Fatal("token removed without a catch")
			}
		})
	}
}

func TestFeedbackAppearsAtTokenPosition(t *testing.T) {
	w := newTestWorld()
	addToken(w, 0.52, 0.87, object.CategoryReferral)
	w.Resolve()

	txt := w.Pool.Texts[0]
	if txt.X != 0.52 || txt.Y != 0.87 {
		t.Errorf("text at (%v,%v), want (0.52,0.87)", txt.X, txt.Y)
	}
	for _, p := range w.Pool.Particles {
		if p.X != 0.52 || p.Y != 0.87 {
			t.Fatalf("particle at (%v,%v), want (0.52,0.87)", p.X, p.Y)
		}
	}
}

func TestCaughtScenarios(t *testing.T) {
	tests := []struct {
		name      string
		category  object.Category
		lives     int
		combo     int
		wantPower int
		wantLives int
		wantCombo int
	}{
		{"human from scratch", object.CategoryHuman, 3, 0, 5, 3, 1},
		{"sybil breaks a streak", object.CategorySybil, 3, 7, 0, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(Options{Rand: constRand(0.5)})
			c.Start()
			w := c.World()
			w.State.Lives = tt.lives
			w.State.Combo = tt.combo
			addToken(w, 0.5, 0.879, tt.category)

			c.Tick(0.01)

			s := c.State()
			if s.Power != tt.wantPower || s.Lives != tt.wantLives || s.Combo != tt.wantCombo {
				t.Errorf("power=%d lives=%d combo=%d, want %d %d %d",
					s.Power, s.Lives, s.Combo, tt.wantPower, tt.wantLives, tt.wantCombo)
			}
			if len(w.Pool.Tokens) != 0 {
				t.Error("caught token still in pool")
			}
			if !c.Running() {
				t.Error("session ended early")
			}
		})
	}
}
