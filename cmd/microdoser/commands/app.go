// ABOUTME: Shared command setup: config, logger, storage and the LLM runner
// ABOUTME: Every command opens one app and closes it when done
package commands

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harper/microdoser/internal/config"
	"github.com/harper/microdoser/internal/core"
	"github.com/harper/microdoser/internal/llm"
	"github.com/harper/microdoser/internal/logging"
	"github.com/harper/microdoser/internal/storage/sqlite"
)

type app struct {
	cfg    *config.Config
	store  *sqlite.Storage
	logger *log.Logger
}

// openApp loads configuration, opens the database and applies saved settings
func openApp(cmd *cobra.Command) (*app, error) {
	return open(cmd, true)
}

// openSettingsApp opens the database without applying or validating configuration,
// so `settings` can still fix a value that makes every other command fail
func openSettingsApp(cmd *cobra.Command) (*app, error) {
	return open(cmd, false)
}

func open(cmd *cobra.Command, apply bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Verbose: verbose,
		Quiet:   quiet,
		Output:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	path := dbPath
	if path == "" {
		path = cfg.DBPath
	}
	if path == "" {
		path = sqlite.DefaultDBPath()
	}

	store, err := sqlite.NewStorageWithPath(path)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	logger.Debug("opened database", "path", path)

	if apply {
		if err := cfg.ApplySettings(store.Settings()); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("applying saved settings: %w", err)
		}
	}

	return &app{cfg: cfg, store: store, logger: logger}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("error closing storage", "err", err)
	}
}

// newRunner builds the OpenRouter client and wraps it in a Runner that saves into a.store
func (a *app) newRunner() (*core.Runner, error) {
	client, err := llm.NewClient(a.cfg.ClientConfig(), a.logger)
	if err != nil {
		return nil, err
	}
	return core.NewRunner(client, core.NewSaver(a.store, a.logger), a.logger), nil
}
