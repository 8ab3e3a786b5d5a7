package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"booklib/internal/api"
	"booklib/internal/config"
	"booklib/internal/logging"
	"booklib/internal/state"
	"booklib/internal/telemetry"
	"booklib/internal/ui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "booklib: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.OpenFile(cfg.Log.File, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := state.Open(cfg.StateDir, logger)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close state", "err", err)
		}
	}()

	ctx := context.Background()
	tp, err := telemetry.NewProvider(ctx)
	if err != nil {
		logger.Warn("tracing disabled", "err", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("flush traces", "err", err)
		}
	}()

	client := api.New(cfg.BaseURL(), store,
		api.WithLogger(logger),
		api.WithTracer(tp.Tracer()),
	)
	logger.Info("starting", "mode", cfg.Mode, "base_url", client.BaseURL(), "state_dir", cfg.StateDir)

	backend := ui.ClientBackend{Client: client}
	model := ui.NewAppModel(ui.Deps{
		Catalog: backend,
		Auth:    backend,
		Session: store,
		Modes:   store,
		Logger:  logger,
	}).AsTeaModel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
