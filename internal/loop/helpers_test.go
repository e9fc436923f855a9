package loop

import (
	"errors"
	"math"
	"testing"

	"github.com/tomz197/neoncatch/internal/object"
)

const eps = 1e-9

// seqRand replays vals in order, wrapping around.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func constRand(v float64) *seqRand {
	return &seqRand{vals: []float64{v}}
}

type memStore struct {
	best     int
	readErr  error
	writeErr error
	writes   []int
}

func (s *memStore) Read() (int, error) {
	if s.readErr != nil {
		return 0, s.readErr
	}
	return s.best, nil
}

func (s *memStore) Write(best int) error {
	s.writes = append(s.writes, best)
	if s.writeErr != nil {
		return s.writeErr
	}
	s.best = best
	return nil
}

var errDisk = errors.New("disk on fire")

type fixedIntent struct {
	left, right bool
	resets      int
}

func (f *fixedIntent) Axis() float64 {
	var axis float64
	if f.left {
		axis--
	}
	if f.right {
		axis++
	}
	return axis
}

func (f *fixedIntent) Reset() {
	f.resets++
	f.left, f.right = false, false
}

type recordSink struct {
	catches  []Catch
	outcomes []Outcome
}

func (r *recordSink) Caught(c Catch) { r.catches = append(r.catches, c) }

func (r *recordSink) Ended(o Outcome, _, _ int) { r.outcomes = append(r.outcomes, o) }

func newTestWorld() *World {
	return NewWorld(DefaultTuning(), constRand(0.5))
}

// addToken places a token directly into the world's pool.
func addToken(w *World, x, y float64, c object.Category) object.ID {
	return w.Pool.AddToken(x, y, 0.4, c)
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func checkInvariants(t *testing.T, s State) {
	t.Helper()
	if s.PlayerX < 0 || s.PlayerX > 1 {
		t.Fatalf("playerX = %v, outside [0,1]", s.PlayerX)
	}
	if s.Lives < 0 {
		t.Fatalf("lives = %d, negative", s.Lives)
	}
	if s.TimeLeft < 0 {
		t.Fatalf("timeLeft = %v, negative", s.TimeLeft)
	}
	if s.Power < 0 {
		t.Fatalf("power = %d, negative", s.Power)
	}
}
