package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/five82/timewatch/internal/config"
	"github.com/five82/timewatch/internal/logging"
	"github.com/five82/timewatch/internal/prefs"
	"github.com/five82/timewatch/internal/runner"
	"github.com/five82/timewatch/internal/state"
	"github.com/five82/timewatch/internal/store"
	"github.com/five82/timewatch/internal/ui"
)

// ErrNoCommand is returned when neither a command nor a history to load was
// given.
var ErrNoCommand = errors.New("no command provided")

const eventBuffer = 64

// Options configure a timewatch session. Zero values defer to the config
// file and saved preferences.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/timewatch/prefs.toml

	Command  []string
	Interval time.Duration // zero uses config.DefaultInterval
	Precise  bool

	Shell        string   // overrides config when set
	ShellOptions []string // overrides config when non-nil
	NoShell      bool

	DiffMode       string // prefs.DiffAdd or prefs.DiffDelete; empty keeps prefs
	NoTitle        bool
	Unfold         bool
	SkipEmptyDiffs bool
	Bell           bool

	SavePath        string
	DisableAutoSave bool
	LoadPath        string

	Debug bool

	// Stdout receives the auto-save hint after the UI exits. Defaults to
	// os.Stdout.
	Stdout io.Writer
}

// Validate checks the combinations the CLI cannot express on its own.
func (o Options) Validate() error {
	if o.LoadPath != "" {
		if len(o.Command) > 0 {
			return errors.New("--load cannot be combined with a command")
		}
		return nil
	}
	if len(o.Command) == 0 {
		return ErrNoCommand
	}
	if o.Interval != 0 {
		if err := config.ValidateInterval(o.Interval); err != nil {
			return err
		}
	}
	return nil
}

// Run boots timewatch until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = applyOverrides(cfg, opts)

	logger, closeLog, err := setupLogging(opts.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)
	userPrefs = applyPrefOverrides(userPrefs, opts)

	st, backupPath, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	rc, err := runtimeConfig(ctx, st, opts)
	if err != nil {
		return err
	}
	logger.Info("session start",
		"command", rc.Command,
		"interval", rc.Interval,
		"store", storeLabel(opts, backupPath),
	)

	timeline := state.NewTimeline(cfg.SkipEmptyDiffs)
	records, err := st.Records(ctx)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	timeline.Replay(records)

	uiOpts := ui.Options{
		Store:     st,
		Timeline:  timeline,
		Interval:  rc.Interval,
		Command:   rc.Command,
		Styles:    cfg.Styles,
		Bell:      cfg.Bell,
		Prefs:     userPrefs,
		PrefsPath: prefsPath(opts.PrefsPath),
		Logger:    logger,
	}

	if opts.LoadPath != "" {
		uiOpts.ReadOnly = true
		return ui.Run(ctx, uiOpts)
	}

	err = watch(ctx, st, cfg, rc, opts, timeline, uiOpts, logger)
	if backupPath != "" {
		printBackupHint(opts.Stdout, backupPath)
	}
	return err
}

// watch runs the scheduler and the UI side by side. Whichever stops first
// stops the other; a scheduler error takes precedence.
func watch(ctx context.Context, st store.Store, cfg config.Config, rc store.RuntimeConfig, opts Options,
	timeline *state.Timeline, uiOpts ui.Options, logger *slog.Logger) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan runner.Event, eventBuffer)
	forward := make(chan runner.Event, eventBuffer)

	mode := runner.ModeFixed
	if opts.Precise {
		mode = runner.ModePrecise
	}
	r, err := runner.New(runner.Options{
		Store:  st,
		Config: rc,
		Shell:  shellFor(cfg),
		Mode:   mode,
		Events: events,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	runErr := make(chan error, 1)
	go func() {
		err := r.Run(runCtx)
		close(events)
		runErr <- err
	}()
	StartPump(runCtx, events, timeline, forward)

	uiOpts.Events = forward
	uiOpts.Suspender = r.Suspender()
	uiErr := ui.Run(runCtx, uiOpts)

	cancel()
	if err := <-runErr; err != nil {
		return err
	}
	return uiErr
}

// applyOverrides layers command line flags over the config file.
func applyOverrides(cfg config.Config, opts Options) config.Config {
	if opts.Shell != "" {
		cfg.Shell = opts.Shell
	}
	if opts.ShellOptions != nil {
		cfg.ShellOptions = opts.ShellOptions
	}
	cfg.NoShell = cfg.NoShell || opts.NoShell
	cfg.SkipEmptyDiffs = cfg.SkipEmptyDiffs || opts.SkipEmptyDiffs
	cfg.Bell = cfg.Bell || opts.Bell
	return cfg
}

func applyPrefOverrides(p prefs.Prefs, opts Options) prefs.Prefs {
	if opts.DiffMode != "" {
		p.DiffMode = opts.DiffMode
	}
	p.NoTitle = p.NoTitle || opts.NoTitle
	p.Unfold = p.Unfold || opts.Unfold
	return p
}

func shellFor(cfg config.Config) *runner.Shell {
	if cfg.NoShell {
		return nil
	}
	return &runner.Shell{Program: cfg.Shell, Options: cfg.ShellOptions}
}

func prefsPath(path string) string {
	if path == "" {
		return prefs.DefaultPath()
	}
	return path
}

func setupLogging(debug bool) (*slog.Logger, func() error, error) {
	opts := logging.Options{Debug: debug}
	if debug {
		path, err := config.LogPath()
		if err != nil {
			return nil, nil, err
		}
		opts.Path = path
	}
	logger, closeFn, err := logging.Setup(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("setup logging: %w", err)
	}
	return logger, closeFn, nil
}

// openStore picks the history backend. It returns the auto-save path when
// one was created.
func openStore(ctx context.Context, opts Options) (store.Store, string, error) {
	switch {
	case opts.LoadPath != "":
		path, err := config.ExpandPath(opts.LoadPath)
		if err != nil {
			return nil, "", err
		}
		st, err := store.OpenSQLite(ctx, path, store.ModeOpen)
		if err != nil {
			return nil, "", fmt.Errorf("load history: %w", err)
		}
		return st, "", nil

	case opts.SavePath != "":
		path, err := config.ExpandPath(opts.SavePath)
		if err != nil {
			return nil, "", err
		}
		st, err := store.OpenSQLite(ctx, path, store.ModeCreate)
		if err != nil {
			return nil, "", fmt.Errorf("create history: %w", err)
		}
		return st, "", nil

	case opts.DisableAutoSave:
		return store.NewMemoryStore(), "", nil

	default:
		path, err := config.BackupPath(time.Now())
		if err != nil {
			return nil, "", err
		}
		st, err := store.OpenSQLite(ctx, path, store.ModeCreate)
		if err != nil {
			return nil, "", fmt.Errorf("create backup: %w", err)
		}
		return st, path, nil
	}
}

// runtimeConfig restores the interval and command of a loaded history, or
// records the ones given on the command line.
func runtimeConfig(ctx context.Context, st store.Store, opts Options) (store.RuntimeConfig, error) {
	if opts.LoadPath != "" {
		rc, ok, err := st.RuntimeConfig(ctx)
		if err != nil {
			return store.RuntimeConfig{}, fmt.Errorf("read runtime config: %w", err)
		}
		if !ok {
			return store.RuntimeConfig{}, fmt.Errorf("%s has no runtime config", opts.LoadPath)
		}
		return rc, nil
	}

	rc := store.RuntimeConfig{Interval: opts.Interval, Command: opts.Command}
	if rc.Interval == 0 {
		rc.Interval = config.DefaultInterval
	}
	if err := st.SetRuntimeConfig(ctx, rc); err != nil {
		return store.RuntimeConfig{}, fmt.Errorf("write runtime config: %w", err)
	}
	return rc, nil
}

func storeLabel(opts Options, backupPath string) string {
	switch {
	case opts.LoadPath != "":
		return opts.LoadPath
	case opts.SavePath != "":
		return opts.SavePath
	case backupPath != "":
		return backupPath
	default:
		return "memory"
	}
}

func printBackupHint(w io.Writer, path string) {
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "Backup saved at %s\n", path)
	fmt.Fprintf(w, "Run `timewatch --load %s` to look back\n", path)
}
