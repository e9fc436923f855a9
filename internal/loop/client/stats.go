package client

import (
	"github.com/tomz197/neoncatch/internal/loop"
	"go.uber.org/zap"
)

// sessionStats counts what was caught during one session for the score card
// and traces catches at debug level.
type sessionStats struct {
	log     *zap.Logger
	good    int
	bad     int
	maxMult int
}

var _ loop.EventSink = (*sessionStats)(nil)

func (s *sessionStats) reset() {
	s.good, s.bad, s.maxMult = 0, 0, 0
}

func (s *sessionStats) Caught(c loop.Catch) {
	if c.Token.Good {
		s.good++
		s.maxMult = max(s.maxMult, c.Multiplier)
	} else {
		s.bad++
	}
	s.log.Debug("token caught",
		zap.Stringer("category", c.Token.Category),
		zap.Int("gain", c.Gain),
		zap.Int("multiplier", c.Multiplier))
}

func (s *sessionStats) Ended(outcome loop.Outcome, power, best int) {
	s.log.Debug("session stats",
		zap.Stringer("outcome", outcome),
		zap.Int("good", s.good),
		zap.Int("bad", s.bad),
		zap.Int("max_multiplier", s.maxMult),
		zap.Int("power", power),
		zap.Int("best", best))
}
