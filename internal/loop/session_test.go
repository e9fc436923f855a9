package loop

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/neoncatch/internal/object"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newScheduledController(t Tuning, store BestStore) (*Controller, *FrameScheduler, *fixedIntent, *recordSink) {
	sched := NewFrameScheduler()
	intent := &fixedIntent{}
	sink := &recordSink{}
	c := NewController(Options{
		Tuning:    t,
		Rand:      constRand(0.5),
		Input:     intent,
		Scheduler: sched,
		Store:     store,
		Events:    sink,
	})
	return c, sched, intent, sink
}

func TestControllerStartSchedulesTicks(t *testing.T) {
	c, sched, intent, _ := newScheduledController(DefaultTuning(), nil)
	if c.Running() {
		t.Fatal("new controller is running")
	}

	c.Start()

	if !c.Running() || sched.Len() != 1 {
		t.Fatalf("running=%v scheduled=%d, want running with one callback", c.Running(), sched.Len())
	}
	if intent.resets != 1 {
		t.Errorf("input resets = %d, want 1", intent.resets)
	}

	start := time.Unix(1000, 0)
	sched.RunFrame(start)
	if c.State().TimeLeft != 60 {
		t.Fatalf("first frame consumed time: %v", c.State().TimeLeft)
	}
	sched.RunFrame(start.Add(20 * time.Millisecond))
	approx(t, "timeLeft", c.State().TimeLeft, 59.98)

	// A long stall is capped.
	sched.RunFrame(start.Add(5 * time.Second))
	approx(t, "timeLeft", c.State().TimeLeft, 59.93)
}

func TestControllerSteersFromIntent(t *testing.T) {
	tests := []struct {
		name        string
		left, right bool
		want        float64
	}{
		{"left", true, false, 0.5 - 0.055},
		{"right", false, true, 0.5 + 0.055},
		{"both", true, true, 0.5},
		{"none", false, false, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, intent, _ := newScheduledController(DefaultTuning(), nil)
			c.Start()
			intent.left, intent.right = tt.left, tt.right
			c.Tick(0.05)
			approx(t, "playerX", c.State().PlayerX, tt.want)
		})
	}
}

func TestControllerEndsWhenTimeRunsOut(t *testing.T) {
	tuning := DefaultTuning()
	tuning.TimeBudget = 0.1
	store := &memStore{best: 3}
	c, sched, _, sink := newScheduledController(tuning, store)
	c.Start()
	c.World().State.Power = 25

	c.Tick(0.05)
	if !c.Running() {
		t.Fatal("ended with time left")
	}
	c.Tick(0.05)

	s := c.State()
	if c.Running() || s.Outcome != OutcomeTimeUp {
		t.Fatalf("phase=%s outcome=%s, want idle/time up", s.Phase, s.Outcome)
	}
	if s.TimeLeft != 0 || s.Lives != 3 {
		t.Errorf("timeLeft=%v lives=%d", s.TimeLeft, s.Lives)
	}
	if s.Best != 25 || store.best != 25 {
		t.Errorf("best=%d stored=%d, want 25", s.Best, store.best)
	}
	if sched.Len() != 0 {
		t.Errorf("scheduler still holds %d callbacks", sched.Len())
	}
	if len(sink.outcomes) != 1 || sink.outcomes[0] != OutcomeTimeUp {
		t.Errorf("outcomes = %v", sink.outcomes)
	}
}

func TestControllerEndsWhenLivesRunOut(t *testing.T) {
	tuning := DefaultTuning()
	tuning.InitialLives = 1
	store := &memStore{best: 40}
	c, _, _, sink := newScheduledController(tuning, store)
	c.Start()
	w := c.World()
	w.State.Power = 10
	addToken(w, 0.5, 0.879, object.CategoryFake)

	c.Tick(0.01)

	s := c.State()
	if c.Running() || s.Outcome != OutcomeOutOfLives {
		t.Fatalf("phase=%s outcome=%s, want idle/out of lives", s.Phase, s.Outcome)
	}
	if s.Lives != 0 || s.TimeLeft <= 0 {
		t.Errorf("lives=%d timeLeft=%v", s.Lives, s.TimeLeft)
	}
	if s.Best != 40 {
		t.Errorf("best = %d, want the stored 40", s.Best)
	}
	if len(store.writes) != 1 {
		t.Errorf("store writes = %v, want one", store.writes)
	}
	if len(sink.catches) != 1 || sink.catches[0].Token.Category != object.CategoryFake {
		t.Errorf("catches = %+v", sink.catches)
	}
}

func TestControllerNewBestNeedsStrictlyHigherPower(t *testing.T) {
	tests := []struct {
		name     string
		power    int
		wantNew  bool
		wantBest int
	}{
		{"tie", 50, false, 50},
		{"below", 30, false, 50},
		{"above", 55, true, 55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuning := DefaultTuning()
			tuning.InitialLives = 1
			c, _, _, _ := newScheduledController(tuning, &memStore{best: 50})
			c.Start()
			w := c.World()
			w.State.Power = tt.power
			addToken(w, 0.5, 0.879, object.CategoryFake)

			c.Tick(0.01)

			snap := c.Snapshot()
			if snap.NewBest != tt.wantNew || snap.Best != tt.wantBest {
				t.Fatalf("newBest = %v best = %d, want %v and %d", snap.NewBest, snap.Best, tt.wantNew, tt.wantBest)
			}

			c.Start()
			if c.State().NewBest {
				t.Fatal("new best flag survived a restart")
			}
		})
	}
}

func TestControllerLivesWinOverTimeOnSameTick(t *testing.T) {
	tuning := DefaultTuning()
	tuning.TimeBudget = 0.01
	tuning.InitialLives = 1
	c, _, _, _ := newScheduledController(tuning, nil)
	c.Start()
	addToken(c.World(), 0.5, 0.879, object.CategorySybil)

	c.Tick(0.05)

	if got := c.State().Outcome; got != OutcomeOutOfLives {
		t.Fatalf("outcome = %s, want out of lives", got)
	}
}

func TestControllerIgnoresTicksWhenIdle(t *testing.T) {
	tuning := DefaultTuning()
	tuning.TimeBudget = 0.05
	c, sched, _, _ := newScheduledController(tuning, nil)

	c.Tick(0.05)
	if c.State().TimeLeft != 0.05 {
		t.Fatal("tick before start advanced the world")
	}

	c.Start()
	c.Tick(0.05)
	c.Tick(0.05)
	c.Tick(0.05)

	if n := sched.RunFrame(time.Now()); n != 0 {
		t.Fatalf("ran %d callbacks after the session ended", n)
	}
	if c.State().Outcome != OutcomeTimeUp {
		t.Fatalf("outcome = %s", c.State().Outcome)
	}
}

func TestControllerRestartMidSession(t *testing.T) {
	c, sched, intent, _ := newScheduledController(DefaultTuning(), nil)
	c.Start()
	c.World().State.Power = 30
	c.World().State.Combo = 6
	for i := 0; i < 5; i++ {
		c.Tick(0.05)
	}

	c.Restart()

	s := c.State()
	if s.Power != 0 || s.Combo != 0 || s.TimeLeft != 60 || s.Lives != 3 {
		t.Errorf("state after restart = %+v", s)
	}
	if sched.Len() != 1 {
		t.Errorf("scheduled = %d, want exactly one tick callback", sched.Len())
	}
	if intent.resets != 2 {
		t.Errorf("input resets = %d, want 2", intent.resets)
	}
	if s.Best != 0 {
		t.Errorf("restart recorded best %d", s.Best)
	}
}

func TestControllerRestartAfterEndKeepsBest(t *testing.T) {
	tuning := DefaultTuning()
	tuning.TimeBudget = 0.05
	c, _, _, _ := newScheduledController(tuning, nil)
	c.Start()
	c.World().State.Power = 45
	c.Tick(0.05)

	c.Start()

	s := c.State()
	if s.Best != 45 || s.Power != 0 || !c.Running() {
		t.Fatalf("state = %+v, want best kept and a fresh session", s)
	}
	if s.Outcome != OutcomeNone {
		t.Errorf("outcome = %s, want none while running", s.Outcome)
	}
}

func TestControllerClose(t *testing.T) {
	store := &memStore{best: 5}
	c, sched, _, sink := newScheduledController(DefaultTuning(), store)
	c.Start()
	c.World().State.Power = 50

	c.Close()

	if c.Running() || sched.Len() != 0 {
		t.Fatal("close left the session running")
	}
	if c.State().Best != 5 || len(store.writes) != 0 {
		t.Errorf("close updated best: best=%d writes=%v", c.State().Best, store.writes)
	}
	if len(sink.outcomes) != 0 {
		t.Errorf("close reported an outcome: %v", sink.outcomes)
	}
}

func TestControllerStoreFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := &memStore{readErr: errDisk, writeErr: errDisk}
	tuning := DefaultTuning()
	tuning.TimeBudget = 0.05

	c := NewController(Options{
		Tuning: tuning,
		Rand:   constRand(0.5),
		Store:  store,
		Logger: zap.New(core),
	})
	if c.State().Best != 0 {
		t.Fatalf("best = %d, want 0 after a failed read", c.State().Best)
	}

	c.Start()
	c.World().State.Power = 15
	c.Tick(0.05)

	if c.State().Best != 15 {
		t.Errorf("best = %d, want 15 in memory despite the failed write", c.State().Best)
	}
	if n := logs.Len(); n != 2 {
		t.Errorf("warnings = %d, want 2", n)
	}
}

func TestControllerZeroTuningUsesDefaults(t *testing.T) {
	c := NewController(Options{})
	if got := c.World().Tuning; got != DefaultTuning() {
		t.Fatalf("tuning = %+v, want defaults", got)
	}
	c.Start()
	c.Tick(0.05)
	approx(t, "timeLeft", c.State().TimeLeft, 59.95)
}

func TestSnapshotIsDetached(t *testing.T) {
	c := NewController(Options{Rand: constRand(0.5)})
	c.Start()
	w := c.World()
	w.State.Combo = 12
	addToken(w, 0.2, 0.3, object.CategoryAI)

	snap := c.Snapshot()
	snap.Tokens[0].X = 0.9

	if w.Pool.Tokens[0].X != 0.2 {
		t.Fatal("snapshot shares token storage with the pool")
	}
	if snap.Multiplier != 3 || snap.Lives != 3 || snap.Phase != PhaseRunning {
		t.Errorf("snapshot = %+v", snap)
	}

	// Reused snapshots shrink with the pool.
	w.Pool.Clear()
	c.SnapshotInto(&snap)
	if len(snap.Tokens) != 0 {
		t.Errorf("tokens = %d, want 0", len(snap.Tokens))
	}
}

// TestInvariantsHoldUnderRandomPlay drives many sessions with random steering
// and hostile frame deltas.
func TestInvariantsHoldUnderRandomPlay(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	intent := &fixedIntent{}
	c := NewController(Options{
		Rand:  rand.New(rand.NewSource(11)),
		Input: intent,
		Store: &memStore{},
	})

	deltas := []float64{0.016, 0.033, 0.05, 0.2, 0, -0.1, math.NaN(), math.Inf(1)}
	best := 0
	for session := 0; session < 20; session++ {
		c.Start()
		for i := 0; i < 20000 && c.Running(); i++ {
			intent.left = r.Intn(3) == 0
			intent.right = r.Intn(3) == 0
			before := c.State()

			c.Tick(deltas[r.Intn(len(deltas))])

			s := c.State()
			checkInvariants(t, s)
			if s.TimeLeft > before.TimeLeft {
				t.Fatalf("timeLeft grew from %v to %v", before.TimeLeft, s.TimeLeft)
			}
			if s.Power < before.Power {
				t.Fatalf("power dropped from %d to %d", before.Power, s.Power)
			}
			if s.Lives > before.Lives {
				t.Fatalf("lives grew from %d to %d", before.Lives, s.Lives)
			}
		}
		if c.Running() {
			t.Fatalf("session %d never ended", session)
		}
		s := c.State()
		if s.Best < best || s.Best < s.Power {
			t.Fatalf("best = %d after power %d, previous best %d", s.Best, s.Power, best)
		}
		best = s.Best
	}
}
