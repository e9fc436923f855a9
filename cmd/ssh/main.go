package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/muesli/termenv"
	"github.com/tomz197/neoncatch/internal/config"
	"github.com/tomz197/neoncatch/internal/draw"
	"github.com/tomz197/neoncatch/internal/loop/client"
	"github.com/tomz197/neoncatch/internal/store"
	"go.uber.org/zap"
)

// shutdownGrace is how long sessions get to show the shutdown notice.
const shutdownGrace = 4 * time.Second

func main() {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("ssh server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	workingDir, err := os.Getwd()
	if err != nil {
		logger.Warn("failed to get working directory", zap.Error(err))
	}
	logger.Info("ssh config",
		zap.String("host", cfg.SSH.Host),
		zap.String("port", cfg.SSH.Port),
		zap.String("host_key", cfg.SSH.HostKeyPath),
		zap.String("working_dir", workingDir))

	// One score table shared by every session, keyed by SSH user.
	scores, err := store.Open(cfg.Store.Backend, cfg.Store.AppName)
	if err != nil {
		logger.Warn("best score storage unavailable, scores kept in memory", zap.Error(err))
		scores = store.New(store.NewMemory())
	}

	h := &handler{
		cfg:      cfg,
		log:      logger,
		scores:   scores,
		shutdown: make(chan struct{}),
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			h.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	logger.Info("starting ssh server", zap.String("addr", s.Addr))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-done:
	}

	logger.Info("shutting down, notifying players", zap.Int("sessions", h.active()))
	close(h.shutdown)
	h.wait(shutdownGrace)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SSH.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("ssh server stopped")
	return nil
}

// handler runs one game client per SSH session.
type handler struct {
	cfg      *config.Config
	log      *zap.Logger
	scores   *store.Scores
	shutdown chan struct{}

	mu       sync.Mutex
	sessions int
	wg       sync.WaitGroup
}

func (h *handler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		h.track(1)
		defer h.track(-1)

		log := h.log.With(zap.String("user", sess.User()), zap.String("remote", sess.RemoteAddr().String()))
		log.Info("new game session",
			zap.String("term", pty.Term),
			zap.Int("width", pty.Window.Width),
			zap.Int("height", pty.Window.Height))

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c := client.New(bufio.NewReader(sess), sess, client.Options{
			Username:     sess.User(),
			TermSizeFunc: sizeTracker.getSize,
			Renderer:     draw.NewRendererWithProfile(sess, termenv.ANSI256),
			Tuning:       h.cfg.Game,
			KeyHold:      h.cfg.Input.KeyHold,
			Pulse:        h.cfg.Input.Pulse,
			Store:        h.scores.For(sess.User()),
			Logger:       log,
			IdleTimeout:  h.cfg.SSH.IdleTimeout,
			Shutdown:     h.shutdown,
			ShareURL:     h.cfg.Web.PublicURL(),
		})
		if err := c.Run(sess.Context()); err != nil {
			log.Warn("game error", zap.Error(err))
		}

		log.Info("session ended")
		next(sess)
	}
}

func (h *handler) track(delta int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions += delta
	if delta > 0 {
		h.wg.Add(1)
	} else {
		h.wg.Done()
	}
}

func (h *handler) active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sessions
}

// wait blocks until every session has ended or timeout passes.
func (h *handler) wait(timeout time.Duration) {
	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(timeout):
		h.log.Warn("sessions still connected after shutdown notice", zap.Int("sessions", h.active()))
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
