package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/timewatch/internal/app"
	"github.com/five82/timewatch/internal/config"
	"github.com/five82/timewatch/internal/prefs"
)

type runFunc func(context.Context, app.Options) error

type flags struct {
	interval        string
	differences     bool
	deletions       bool
	precise         bool
	noTitle         bool
	unfold          bool
	shell           string
	shellOptions    string
	exec            bool
	skipEmptyDiffs  bool
	bell            bool
	save            string
	disableAutoSave bool
	load            string
	configPath      string
	debug           bool
}

// newRootCmd builds the command line. run receives the validated options.
func newRootCmd(run runFunc) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "timewatch [flags] command [args...]",
		Short: "Execute a command periodically and travel through its output history",
		Long: `timewatch runs a command at a fixed interval, shows its output full screen
and keeps every result. Changes between executions can be highlighted, and
the time machine mode lets you step back through earlier results.

History is auto-saved to a SQLite file under the XDG data directory unless
--save or --disable_auto_save is given; --load browses a saved history.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd.Flags(), args)
			if err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			opts.Stdout = cmd.OutOrStdout()
			return run(cmd.Context(), opts)
		},
	}

	fs := cmd.Flags()
	// Everything after the command name belongs to the command.
	fs.SetInterspersed(false)
	fs.SetNormalizeFunc(aliases)

	fs.StringVarP(&f.interval, "interval", "n", "", "seconds to wait between updates, e.g. 2, 0.5 or 1m (default 2s)")
	fs.BoolVarP(&f.differences, "differences", "d", false, "highlight changes between updates")
	fs.BoolVarP(&f.deletions, "deletion-differences", "D", false, "highlight deletions between updates")
	fs.BoolVarP(&f.precise, "precise", "p", false, "attempt to run the command in precise intervals")
	fs.BoolVarP(&f.noTitle, "no-title", "t", false, "turn off the header")
	fs.BoolVarP(&f.unfold, "unfold", "w", false, "do not wrap long lines")
	fs.StringVar(&f.shell, "shell", "", "shell used to run the command (default from config, sh)")
	fs.StringVar(&f.shellOptions, "shell-options", "", "options passed to the shell, space separated")
	fs.BoolVarP(&f.exec, "exec", "x", false, "pass the command to exec instead of a shell")
	fs.BoolVarP(&f.skipEmptyDiffs, "skip-empty-diffs", "s", false, "fold executions without changes into the previous history entry")
	fs.BoolVarP(&f.bell, "bell", "b", false, "ring the terminal bell when the output changes")
	fs.StringVar(&f.save, "save", "", "save history to this file")
	fs.BoolVar(&f.disableAutoSave, "disable_auto_save", false, "keep history in memory only")
	fs.StringVar(&f.load, "load", "", "browse a saved history (alias --lookback)")
	fs.StringVar(&f.configPath, "config", "", "config file (default ~/.config/timewatch/config.toml)")
	fs.BoolVar(&f.debug, "debug", false, "write debug logs under the XDG state directory")

	cmd.MarkFlagsMutuallyExclusive("differences", "deletion-differences")
	cmd.MarkFlagsMutuallyExclusive("exec", "shell")
	cmd.MarkFlagsMutuallyExclusive("save", "disable_auto_save", "load")
	for _, name := range []string{"shell", "shell-options", "exec", "bell", "precise", "interval"} {
		cmd.MarkFlagsMutuallyExclusive("load", name)
	}

	return cmd
}

// aliases maps the alternate flag names kept for familiarity.
func aliases(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "no-wrap":
		name = "unfold"
	case "lookback":
		name = "load"
	}
	return pflag.NormalizedName(name)
}

func (f flags) options(fs *pflag.FlagSet, args []string) (app.Options, error) {
	opts := app.Options{
		ConfigPath:      f.configPath,
		Command:         args,
		Precise:         f.precise,
		Shell:           f.shell,
		NoShell:         f.exec,
		NoTitle:         f.noTitle,
		Unfold:          f.unfold,
		SkipEmptyDiffs:  f.skipEmptyDiffs,
		Bell:            f.bell,
		SavePath:        f.save,
		DisableAutoSave: f.disableAutoSave,
		LoadPath:        f.load,
		Debug:           f.debug,
	}
	if fs.Changed("interval") {
		d, err := config.ParseInterval(f.interval)
		if err != nil {
			return app.Options{}, err
		}
		if err := config.ValidateInterval(d); err != nil {
			return app.Options{}, err
		}
		opts.Interval = d
	}
	if fs.Changed("shell-options") {
		opts.ShellOptions = config.SplitShellOptions(f.shellOptions)
	}
	switch {
	case f.differences:
		opts.DiffMode = prefs.DiffAdd
	case f.deletions:
		opts.DiffMode = prefs.DiffDelete
	}
	return opts, nil
}
