package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/npratt/splitclock/internal/config"
)

var version = "dev"

// app carries what every command shares: the viper instance flags are bound
// to and the stderr logger with its adjustable level.
type app struct {
	v        *viper.Viper
	logLevel *slog.LevelVar
	logger   *slog.Logger
}

// load reads the configuration and resolves the data paths.
func (a *app) load() (*config.Config, config.PathsConfig, error) {
	if a.v.GetBool(FlagVerbose) {
		a.logLevel.Set(slog.LevelDebug)
		a.logger.Debug("verbose logging enabled")
	}
	cfg, err := config.LoadConfig(a.v)
	if err != nil {
		return nil, config.PathsConfig{}, fmt.Errorf("load config: %w", err)
	}
	paths := config.ResolvePaths(cfg.Paths, a.v.GetString(FlagDataDir))
	a.logger.Debug("paths resolved",
		"run_state", paths.RunState,
		"library", paths.Library,
		"journal", paths.Journal,
	)
	return cfg, paths, nil
}

// terminalWidth returns the stdout width, or 80 when it is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func newRootCmd(v *viper.Viper, logLevel *slog.LevelVar, logger *slog.Logger) *cobra.Command {
	a := &app{v: v, logLevel: logLevel, logger: logger}

	v.SetEnvPrefix("SPLITCLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "splitclock",
		Short: "Split timer for daily routines",
		Long: `splitclock times a routine as a sequence of splits, the way speedrun
timers do. It keeps best segment times per template, can auto-complete a
wake-up split from a wake time log, and can measure how long a chosen window
stayed focused during a split.

Run without a subcommand to open the timer.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         a.runTUI,
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .splitclock/config.yaml)")
	rootCmd.PersistentFlags().String(FlagDataDir, "", "Directory for templates, run state and reports (default: $XDG_DATA_HOME/splitclock)")
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
	addRunFlags(rootCmd.Flags())

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "splitclock %s\n", version)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Open the split timer",
		Long: `Open the split timer in the terminal.

The first template found is loaded: --template, then the last template used,
then the library entry named by template.default_name, then the built-in
default splits.`,
		Args: cobra.NoArgs,
		RunE: a.runTUI,
	}
	addRunFlags(runCmd.Flags())

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(a.statusCmd())
	rootCmd.AddCommand(a.reportCmd())
	rootCmd.AddCommand(a.templateCmd())
	rootCmd.AddCommand(a.journalCmd())
	return rootCmd
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.String(FlagTemplate, "", "Template file to load")
	fs.Bool(FlagRefreshWake, false, "Run wake.refresh_command before starting")
	fs.Bool(FlagNoFocus, false, "Disable window focus tracking")
}

func main() {
	logLevel := &slog.LevelVar{}
	logger := SetupLoggerWithWriter(os.Stderr, logLevel)

	rootCmd := newRootCmd(viper.GetViper(), logLevel, logger)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
