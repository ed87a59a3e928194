package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/config"
	"github.com/roach88/stockroom/internal/inventory"
	"github.com/roach88/stockroom/internal/manager"
	"github.com/roach88/stockroom/internal/persist"
)

// app is what a catalog command works with: the loaded manager plus the
// formatter and logger built from the global flags.
type app struct {
	cfg *config.Config
	log *slog.Logger
	out *OutputFormatter
	mgr *manager.Manager
}

// newFormatter builds the formatter for cmd from the global flags.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// loadConfig resolves the effective configuration, applying only the
// global flags the user actually set.
func loadConfig(opts *RootOptions, cmd *cobra.Command) (*config.Config, error) {
	overrides := map[string]any{}
	flags := cmd.Flags()
	if flags.Changed("file") {
		overrides["storage.path"] = opts.File
	}
	if flags.Changed("strategy") {
		overrides["storage.strategy"] = opts.Strategy
	}
	if flags.Changed("delimiter") {
		overrides["storage.delimiter"] = opts.Delimiter
	}
	if opts.Unique {
		overrides["store.duplicates"] = string(inventory.DuplicatesReject)
	}
	if opts.Strict {
		overrides["store.missing"] = string(inventory.MissingError)
	}
	if opts.NoAutosave {
		overrides["store.autosave"] = false
	}
	if opts.Verbose {
		overrides["log.level"] = "debug"
	}

	cfg, err := config.Load(config.LoadOptions{
		File:      opts.ConfigFile,
		Overrides: overrides,
	})
	if err != nil {
		return nil, &configError{err: err}
	}
	return cfg, nil
}

// newLogger builds the slog logger described by cfg, writing to w.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelWarn
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// openApp loads the configuration and the catalog. Errors are reported
// through the formatter and returned as an *ExitError.
func openApp(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*app, error) {
	out := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return nil, out.Fail(err)
	}
	log := newLogger(cfg.Log, cmd.ErrOrStderr())

	mgr, err := openManager(ctx, cfg, log)
	if err != nil {
		return nil, out.Fail(err)
	}
	if lerr := mgr.LoadErr(); lerr != nil {
		fmt.Fprintf(out.GetErrWriter(), "warning: could not load %s, starting with an empty catalog: %v\n",
			mgr.Adapter().Path(), lerr)
	}
	out.VerboseLog("catalog %s (%s), %d item(s), session %s",
		mgr.Adapter().Path(), mgr.Adapter().Strategy(), mgr.Len(), mgr.SessionID())

	return &app{cfg: cfg, log: log, out: out, mgr: mgr}, nil
}

// openManager builds the adapter and manager described by cfg.
func openManager(ctx context.Context, cfg *config.Config, log *slog.Logger) (*manager.Manager, error) {
	strategy, err := persist.ParseStrategy(cfg.Storage.Strategy)
	if err != nil {
		return nil, &configError{err: err}
	}
	policy, err := inventory.ParsePolicy(cfg.Store.Duplicates, cfg.Store.Missing)
	if err != nil {
		return nil, &configError{err: err}
	}
	recovery, err := manager.ParseRecovery(cfg.Storage.Recovery)
	if err != nil {
		return nil, &configError{err: err}
	}

	adapter, err := persist.New(persist.Options{
		Strategy:  strategy,
		Path:      cfg.Storage.Path,
		Delimiter: cfg.Storage.Delimiter,
		Logger:    log,
	})
	if err != nil {
		return nil, &configError{err: err}
	}

	return manager.Open(ctx, adapter, manager.Options{
		Policy:   policy,
		Recovery: recovery,
		Autosave: cfg.Store.Autosave,
	}, log)
}

// finish saves pending changes and reports err (the command's result) or a
// save failure. It returns what the command should return.
func (a *app) finish(ctx context.Context, err error) error {
	cerr := a.mgr.Close(ctx)
	if err != nil {
		return a.out.Fail(err)
	}
	if cerr != nil {
		return a.out.Fail(cerr)
	}
	return nil
}

// runWithApp opens the catalog, runs fn and saves anything left unsaved.
func runWithApp(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, opts, cmd)
	if err != nil {
		return err
	}
	return a.finish(ctx, fn(ctx, a))
}
