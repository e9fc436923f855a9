package loop

import (
	"math/rand"
	"time"

	"github.com/tomz197/neoncatch/internal/object"
	"go.uber.org/zap"
)

// Intent is the steering input read once per step.
// *input.Tracker implements it.
type Intent interface {
	Axis() float64 // -1 left, 0 none or both, +1 right
	Reset()
}

// BestStore persists the best score between sessions.
type BestStore interface {
	Read() (int, error)
	Write(best int) error
}

// EventSink observes gameplay events. Methods run on the tick goroutine and
// must not block.
type EventSink interface {
	Caught(c Catch)
	Ended(outcome Outcome, power, best int)
}

// Options configures a Controller. A zero Tuning means DefaultTuning. Nil
// collaborators are optional: without a Scheduler the owner calls Tick
// directly, without Rand a time-seeded source is used.
type Options struct {
	Tuning    Tuning
	Rand      object.Rand
	Input     Intent
	Scheduler Scheduler
	Store     BestStore
	Events    EventSink
	Logger    *zap.Logger
}

// Controller owns one player's session: it resets the world on start, drives
// a tick per frame through the scheduler and ends the session when time or
// lives run out.
type Controller struct {
	world     *World
	input     Intent
	sched     Scheduler
	store     BestStore
	events    EventSink
	log       *zap.Logger
	handle    Handle
	scheduled bool
	lastFrame time.Time
}

// NewController creates an idle controller and loads the best score. A store
// failure is logged and the best score starts at 0.
func NewController(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tuning := opts.Tuning
	if tuning == (Tuning{}) {
		tuning = DefaultTuning()
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	c := &Controller{
		world:  NewWorld(tuning, rng),
		input:  opts.Input,
		sched:  opts.Scheduler,
		store:  opts.Store,
		events: opts.Events,
		log:    log,
	}

	if c.store != nil {
		best, err := c.store.Read()
		if err != nil {
			log.Warn("best score unavailable, starting from 0", zap.Error(err))
			best = 0
		}
		c.world.State.Best = max(0, best)
	}

	return c
}

// Start resets the session and begins driving ticks. Calling it while a
// session is running restarts it.
func (c *Controller) Start() {
	c.stopTicks()

	c.world.Reset()
	c.world.State.Phase = PhaseRunning
	c.world.State.Outcome = OutcomeNone
	if c.input != nil {
		c.input.Reset()
	}

	c.lastFrame = time.Time{}
	if c.sched != nil {
		c.handle = c.sched.Schedule(c.onFrame)
		c.scheduled = true
	}

	c.log.Debug("session started",
		zap.Float64("time_budget", c.world.Tuning.TimeBudget),
		zap.Int("lives", c.world.State.Lives),
		zap.Int("best", c.world.State.Best))
}

// Restart is Start, without confirmation.
func (c *Controller) Restart() {
	c.Start()
}

// Close stops driving ticks when the hosting view goes away. The session is
// abandoned: best is not updated.
func (c *Controller) Close() {
	c.stopTicks()
	c.world.State.Phase = PhaseIdle
}

// Running reports whether a session is in progress.
func (c *Controller) Running() bool {
	return c.world.State.Phase == PhaseRunning
}

// State returns a copy of the session scalars.
func (c *Controller) State() State {
	return c.world.State
}

// World exposes the simulated world to tools and tests.
func (c *Controller) World() *World {
	return c.world
}

// Tick runs one simulation step with an explicit delta in seconds, then the
// end-of-session check. It does nothing while idle.
func (c *Controller) Tick(dt float64) {
	if c.world.State.Phase != PhaseRunning {
		return
	}

	var axis float64
	if c.input != nil {
		axis = c.input.Axis()
	}

	catches := c.world.Step(dt, axis)
	if c.events != nil {
		for _, catch := range catches {
			c.events.Caught(catch)
		}
	}

	s := &c.world.State
	if s.TimeLeft <= 0 || s.Lives <= 0 {
		c.finish()
	}
}

// onFrame converts frame timestamps into deltas. The first frame of a
// session has no predecessor and steps with dt = 0.
func (c *Controller) onFrame(now time.Time) {
	var dt float64
	if !c.lastFrame.IsZero() {
		dt = now.Sub(c.lastFrame).Seconds()
	}
	c.lastFrame = now
	c.Tick(dt)
}

// finish ends the session, records the best score and stops ticking.
func (c *Controller) finish() {
	s := &c.world.State
	s.Phase = PhaseIdle
	if s.Lives <= 0 {
		s.Outcome = OutcomeOutOfLives
	} else {
		s.Outcome = OutcomeTimeUp
	}
	c.stopTicks()

	s.NewBest = s.Power > s.Best
	if s.NewBest {
		s.Best = s.Power
	}
	if c.store != nil {
		if err := c.store.Write(s.Best); err != nil {
			c.log.Warn("failed to persist best score", zap.Int("best", s.Best), zap.Error(err))
		}
	}

	c.log.Info("session ended",
		zap.Stringer("outcome", s.Outcome),
		zap.Int("power", s.Power),
		zap.Int("best", s.Best))

	if c.events != nil {
		c.events.Ended(s.Outcome, s.Power, s.Best)
	}
}

func (c *Controller) stopTicks() {
	if c.scheduled {
		c.sched.Cancel(c.handle)
		c.scheduled = false
	}
}
