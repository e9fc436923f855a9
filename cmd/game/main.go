package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomz197/neoncatch/internal/config"
	"github.com/tomz197/neoncatch/internal/loop/client"
	"github.com/tomz197/neoncatch/internal/store"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}

	// The terminal belongs to the game, so logs only go to a file.
	logger, err := config.NewLogger(cfg.Logging.ForTerminal())
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	scores, err := store.Open(cfg.Store.Backend, cfg.Store.AppName)
	if err != nil {
		logger.Warn("best score storage unavailable, scores will not be kept", zap.Error(err))
		scores = store.New(store.NewMemory())
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	c := client.New(bufio.NewReader(os.Stdin), os.Stdout, client.Options{
		Tuning:  cfg.Game,
		KeyHold: cfg.Input.KeyHold,
		Pulse:   cfg.Input.Pulse,
		Store:   scores.For(store.LocalPlayer),
		Logger:  logger,
	})
	return c.Run(ctx)
}
