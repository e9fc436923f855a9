// Package client runs one player's game on a terminal: it reads keys, drives
// the session through a frame scheduler and renders each frame.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tomz197/neoncatch/internal/avatar"
	"github.com/tomz197/neoncatch/internal/draw"
	"github.com/tomz197/neoncatch/internal/input"
	"github.com/tomz197/neoncatch/internal/loop"
	"go.uber.org/zap"
)

// Client handles rendering and input for a single connection.
type Client struct {
	ctrl    *loop.Controller
	sched   *loop.FrameScheduler
	tracker *input.Tracker
	stream  *input.Stream
	stats   *sessionStats
	log     *zap.Logger

	canvas      *draw.Canvas
	chunkWriter *draw.ChunkWriter
	palette     *draw.Palette
	writer      io.Writer
	links       []link

	snap     loop.Snapshot
	view     View
	prevView View
	running  bool

	username     string
	avatar       avatar.Sprite
	shareURL     string
	termSizeFunc draw.TermSizeFunc
	offCol       int
	offRow       int
	tooSmall     bool

	idleTimeout time.Duration
	lastInput   time.Time
	inactive    bool
	wasInactive bool

	shutdown   <-chan struct{}
	shutdownAt time.Time
}

var _ loop.Intent = (*input.Tracker)(nil)

// New creates a client reading keys from r and drawing to w.
func New(r *bufio.Reader, w io.Writer, opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = draw.NewRenderer(w)
	}
	sprite := avatar.Default()
	if opts.Avatar != nil {
		sprite = *opts.Avatar
	}

	tracker := input.NewTracker(opts.Pulse, time.Now)
	sched := loop.NewFrameScheduler()
	stats := &sessionStats{log: log}
	ctrl := loop.NewController(loop.Options{
		Tuning:    opts.Tuning,
		Rand:      opts.Rand,
		Input:     tracker,
		Scheduler: sched,
		Store:     opts.Store,
		Events:    stats,
		Logger:    log,
	})

	termWidth, termHeight, _ := termSizeFunc()
	cols, rows, offCol, offRow := draw.Fit(termWidth, termHeight, MaxCols, MaxRows)

	return &Client{
		ctrl:         ctrl,
		sched:        sched,
		tracker:      tracker,
		stream:       input.StartStream(r, opts.KeyHold),
		stats:        stats,
		log:          log,
		canvas:       draw.NewCanvas(cols, rows),
		chunkWriter:  draw.NewChunkWriter(w, offCol, offRow),
		offCol:       offCol,
		offRow:       offRow,
		palette:      draw.NewPalette(renderer),
		writer:       w,
		view:         ViewStart,
		prevView:     ViewStart,
		running:      true,
		username:     opts.Username,
		avatar:       sprite,
		shareURL:     opts.ShareURL,
		termSizeFunc: termSizeFunc,
		idleTimeout:  opts.IdleTimeout,
		lastInput:    time.Now(),
		shutdown:     opts.Shutdown,
	}
}

// Run starts the client loop. It blocks until the player quits, the input
// closes, ctx is cancelled or the shutdown notice has been shown.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.ctrl.Close()
	defer c.stream.Stop()

	for c.running {
		frameStart := time.Now()

		select {
		case <-ctx.Done():
			return nil
		default:
		}

		c.frame(frameStart)
		if !c.running {
			break
		}

		if err := c.drawFrame(frameStart); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < TargetFrameTime {
			time.Sleep(TargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// frame advances everything but drawing by one frame.
func (c *Client) frame(now time.Time) {
	c.checkShutdown(now)
	c.processInput(c.stream.Poll(c.tracker), now)
	c.updateScreen()

	c.sched.RunFrame(now)
	c.ctrl.SnapshotInto(&c.snap)

	if c.view == ViewPlaying && !c.ctrl.Running() {
		c.view = ViewEnded
	}
}

// processInput applies control keys and tracks inactivity.
func (c *Client) processInput(keys input.Keys, now time.Time) {
	if keys.Quit || keys.Closed {
		c.running = false
		return
	}

	if len(keys.Pressed) > 0 {
		c.lastInput = now
		c.inactive = false
	} else if c.idleTimeout > 0 {
		idle := now.Sub(c.lastInput)
		switch {
		case idle > c.idleTimeout:
			c.log.Info("disconnecting idle player", zap.String("user", c.username), zap.Duration("idle", idle))
			c.running = false
			return
		case idle > c.idleTimeout-c.warnLead():
			c.inactive = true
		}
	}

	switch c.view {
	case ViewStart, ViewEnded:
		if keys.Start {
			c.startSession()
		}
	case ViewPlaying:
		if keys.Restart {
			c.startSession()
		}
	}
}

func (c *Client) warnLead() time.Duration {
	return min(idleWarnLead, c.idleTimeout/2)
}

// startSession starts or restarts the game.
func (c *Client) startSession() {
	c.stats.reset()
	c.ctrl.Start()
	c.view = ViewPlaying
}

// checkShutdown switches to the shutdown notice once the host announces it
// and stops the loop after the notice has been shown.
func (c *Client) checkShutdown(now time.Time) {
	if c.view == ViewShutdown {
		if now.After(c.shutdownAt) {
			c.running = false
		}
		return
	}
	if c.shutdown == nil {
		return
	}
	select {
	case <-c.shutdown:
		c.ctrl.Close()
		c.view = ViewShutdown
		c.shutdownAt = now.Add(shutdownNotice)
	default:
	}
}

// updateScreen handles terminal resize, clamping to the max render size.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	cols, rows, offCol, offRow := draw.Fit(termWidth, termHeight, MaxCols, MaxRows)

	curCols, curRows := c.canvas.Size()
	if cols != curCols || rows != curRows || offCol != c.offCol || offRow != c.offRow {
		// Residue outside the new area would otherwise stay on screen.
		c.chunkWriter.Clear()
		c.canvas.Resize(cols, rows)
		c.canvas.ForceRedraw()
		c.offCol, c.offRow = offCol, offRow
		c.chunkWriter.SetOffset(offCol, offRow)
	}
	c.tooSmall = cols < MinCols || rows < MinRows
}

// View returns the screen currently shown.
func (c *Client) View() View {
	return c.view
}
