package client

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tomz197/neoncatch/internal/avatar"
	"github.com/tomz197/neoncatch/internal/draw"
	"github.com/tomz197/neoncatch/internal/loop"
	"github.com/tomz197/neoncatch/internal/object"
	"go.uber.org/zap"
)

// Render area limits; larger terminals get a centered area of this size.
const (
	MaxCols = 120
	MaxRows = 40
	MinCols = 40
	MinRows = 14
)

// Frame pacing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

const (
	// idleWarnLead is how long before an idle disconnect the warning shows.
	idleWarnLead = 30 * time.Second
	// shutdownNotice is how long the shutdown screen stays up.
	shutdownNotice = 3 * time.Second
)

// View is the screen a client is showing.
type View int

const (
	ViewStart    View = iota // Title screen
	ViewPlaying              // A session is running
	ViewEnded                // Session over, score card
	ViewShutdown             // Server is going away
)

func (v View) String() string {
	switch v {
	case ViewPlaying:
		return "playing"
	case ViewEnded:
		return "ended"
	case ViewShutdown:
		return "shutdown"
	default:
		return "start"
	}
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	Username     string
	TermSizeFunc draw.TermSizeFunc
	Renderer     *lipgloss.Renderer // Nil detects the local terminal
	Avatar       *avatar.Sprite     // Nil means avatar.Default

	Tuning  loop.Tuning
	Rand    object.Rand
	KeyHold time.Duration
	Pulse   time.Duration // Tracker.Pulse length for non-terminal sources
	Store   loop.BestStore
	Logger  *zap.Logger

	IdleTimeout time.Duration   // Disconnect after this long without input, 0 disables
	Shutdown    <-chan struct{} // Closed when the host is shutting down
	ShareURL    string          // Landing page attached to share links
}

// link is an OSC 8 hyperlink placed over canvas text after rendering.
type link struct {
	col, row int
	url      string
	label    string
}
