// Package input turns discrete key and touch events into a continuous
// left/right intent.
package input

import "time"

// DefaultPulseDuration is how long a touch pulse keeps a direction held.
const DefaultPulseDuration = 60 * time.Millisecond

// Direction selects one of the two steering flags.
type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Left {
		return "left"
	}
	return "right"
}

// hold is the state of one direction flag. A press holds until released;
// a pulse holds until its deadline passes.
type hold struct {
	pressed bool
	until   time.Time
}

// Tracker maintains the left-held and right-held flags.
// It is not safe for concurrent use: the game loop owns it and applies
// events to it between frames.
type Tracker struct {
	pulse time.Duration
	now   func() time.Time
	holds [2]hold
}

// NewTracker creates a tracker. A zero pulse uses DefaultPulseDuration and a
// nil clock uses time.Now.
func NewTracker(pulse time.Duration, now func() time.Time) *Tracker {
	if pulse <= 0 {
		pulse = DefaultPulseDuration
	}
	if now == nil {
		now = time.Now
	}
	return &Tracker{pulse: pulse, now: now}
}

// Press holds the direction until Release is called.
func (t *Tracker) Press(d Direction) {
	t.holds[d].pressed = true
}

// Release clears the direction, including any pending pulse.
func (t *Tracker) Release(d Direction) {
	t.holds[d] = hold{}
}

// Pulse holds the direction for the tracker's pulse duration.
func (t *Tracker) Pulse(d Direction) {
	t.PulseFor(d, t.pulse)
}

// PulseFor holds the direction for dur. A pulse never shortens an earlier,
// longer one.
func (t *Tracker) PulseFor(d Direction, dur time.Duration) {
	until := t.now().Add(dur)
	if until.After(t.holds[d].until) {
		t.holds[d].until = until
	}
}

// Held reports the current flags.
func (t *Tracker) Held() (left, right bool) {
	now := t.now()
	return t.holds[Left].active(now), t.holds[Right].active(now)
}

// Axis folds the flags into -1 (left), 0 (none or both) or +1 (right).
func (t *Tracker) Axis() float64 {
	left, right := t.Held()
	var axis float64
	if left {
		axis--
	}
	if right {
		axis++
	}
	return axis
}

// Reset clears both flags.
func (t *Tracker) Reset() {
	t.holds = [2]hold{}
}

func (h hold) active(now time.Time) bool {
	return h.pressed || now.Before(h.until)
}
