package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/tudu/internal/display"
	"github.com/nhle/tudu/internal/logging"
	"github.com/nhle/tudu/internal/model"
	"github.com/nhle/tudu/internal/store"
)

var loadConfigFn = model.LoadConfig

// session is everything a command needs once config is resolved.
type session struct {
	cfg     *model.AppConfig
	logger  *log.Logger
	store   *store.SQLiteStore
	printer *display.Printer
	workdir string

	closers []io.Closer
}

func (rt *session) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i].Close()
	}
}

// resolveConfig loads the config file and applies the global flag
// overrides.
func resolveConfig(globals *globalOptions) (*model.AppConfig, string, error) {
	path := model.DefaultConfigPath()
	if p := strings.TrimSpace(globals.ConfigPath); p != "" {
		path = p
	}
	cfg, err := loadConfigFn(path)
	if err != nil {
		return nil, path, fmt.Errorf("load config: %w", err)
	}
	if db := strings.TrimSpace(globals.DBPath); db != "" {
		cfg.Database.Path = db
	}
	if lvl := strings.TrimSpace(globals.LogLevel); lvl != "" {
		cfg.Log.Level = lvl
	}
	return cfg, path, nil
}

func openSession(cmd *cobra.Command, deps *commandDeps) (*session, error) {
	cfg, _, err := resolveConfig(deps.globals)
	if err != nil {
		return nil, err
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return nil, usageErrorf("%v", err)
	}
	logger, logCloser, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}
	rt := &session{
		cfg:     cfg,
		logger:  logger,
		printer: display.NewPrinter(deps.out, cfg.Display.DateFormat),
		closers: []io.Closer{logCloser},
	}

	if deps.workdir != nil {
		wd, err := deps.workdir()
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		rt.workdir = wd
	}

	st, err := store.NewSQLiteStore(cfg.Database.Path,
		store.WithLogger(logger),
		store.WithBusyTimeout(time.Duration(cfg.Database.BusyTimeoutMS)*time.Millisecond),
	)
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.store = st
	rt.closers = append(rt.closers, st)
	logger.Debug("session ready", "db", cfg.Database.Path)
	return rt, nil
}

// withStore opens a session, applies pending migrations when configured,
// runs fn and maps its error to an exit code.
func withStore(cmd *cobra.Command, deps *commandDeps, fn func(context.Context, *session) error) error {
	return runWithStore(cmd, deps, true, fn)
}

func runWithStore(cmd *cobra.Command, deps *commandDeps, autoMigrate bool, fn func(context.Context, *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := openSession(cmd, deps)
	if err != nil {
		return mapCommandError(err)
	}
	defer rt.close()

	if autoMigrate && rt.cfg.Database.AutoMigrate {
		applied, err := rt.store.ApplyMigrations(ctx)
		if err != nil {
			return mapCommandError(err)
		}
		if applied > 0 {
			rt.logger.Info("applied pending migrations", "count", applied)
		}
	}
	return mapCommandError(fn(ctx, rt))
}
