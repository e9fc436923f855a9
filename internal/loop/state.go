// Package loop is the game engine: the per-frame simulation step, catch
// resolution and the session lifecycle.
package loop

// Phase is the session's lifecycle state.
type Phase int

const (
	PhaseIdle    Phase = iota // Before the first start or after a session ended
	PhaseRunning              // Ticks are being driven
)

func (p Phase) String() string {
	if p == PhaseRunning {
		return "running"
	}
	return "idle"
}

// Outcome records how the last session ended.
type Outcome int

const (
	OutcomeNone       Outcome = iota // No session has ended yet
	OutcomeTimeUp                    // Time budget exhausted
	OutcomeOutOfLives                // Every life lost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTimeUp:
		return "time up"
	case OutcomeOutOfLives:
		return "out of lives"
	default:
		return "none"
	}
}

// State holds the session scalars.
type State struct {
	TimeLeft float64 // Seconds, never negative
	Lives    int     // Never negative
	Power    int     // Score, never negative
	Combo    int     // Consecutive good catches
	Best     int     // Highest power ever reached, outlives sessions
	PlayerX  float64 // In [0,1]
	Phase    Phase
	Outcome  Outcome
	NewBest  bool // The last session beat the previous best

	spawnAcc float64 // Seconds since the last spawn
}

// Multiplier returns the combo multiplier, 1 + combo/comboStep.
func Multiplier(combo, comboStep int) int {
	if comboStep < 1 {
		comboStep = 1
	}
	return 1 + combo/comboStep
}
