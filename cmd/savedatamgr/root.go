package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"savedatamgr/pkg/config"
	"savedatamgr/pkg/dirsync"
	"savedatamgr/pkg/logger"
	"savedatamgr/pkg/paths"
	"savedatamgr/pkg/savedata"
	"savedatamgr/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile  string
	logLevel    string
	logFile     string
	userProfile string
	appDir      string
	steps       int
	interval    time.Duration
	noAnimation bool
)

// rootCmd runs the interactive menu when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "savedatamgr",
	Short: "Swap game savedata between checkpoints and backups",
	Long: `savedatamgr manages the savedata directory of a single game.

Without a subcommand it shows an interactive menu:
  1. Replace current savedata with a checkpoint
  2. Back up current savedata
  3. Recover a backup
  4. Exit

Checkpoints are directories under ./checkpoints beside the executable.
Backups are timestamped siblings of the live savedata directory. Every
replace and recover takes a silent backup first.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		menu := ui.NewMenu(os.Stdin, os.Stdout, a.manager)
		menu.NewObserver = a.observer
		return menu.Run()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			ui.PrintError(os.Stderr, "Error", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./"+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write JSON logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&userProfile, "user-profile", "", "profile directory holding AppData (default is the current user's)")
	rootCmd.PersistentFlags().StringVar(&appDir, "app-dir", "", "directory holding the checkpoints folder (default is the executable's)")
	rootCmd.PersistentFlags().IntVar(&steps, "steps", config.DefaultProgressSteps, "number of progress bar steps")
	rootCmd.PersistentFlags().DurationVar(&interval, "interval", config.DefaultProgressDelay, "delay between progress bar steps")
	rootCmd.PersistentFlags().BoolVar(&noAnimation, "no-animation", false, "copy without the progress animation")

	rootCmd.SetVersionTemplate(`savedatamgr {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// reportedError marks a failure that has already been shown to the user
type reportedError struct {
	error
}

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err}
}

// app holds the wired components shared by every command
type app struct {
	cfg      *config.Config
	resolver *paths.Resolver
	manager  *savedata.Manager
	log      logger.Logger
}

// newApp loads configuration and wires the resolver, synchronizer and manager
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configFile, commandLineFlags(cmd))
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.WithField("command", cmd.Name())

	stepDelay := cfg.Progress.Interval
	if !cfg.Progress.Animate {
		stepDelay = 0
	}

	resolver := paths.NewResolver(cfg)
	synchronizer := dirsync.New(
		dirsync.WithSteps(cfg.Progress.Steps),
		dirsync.WithInterval(stepDelay),
		dirsync.WithMessage(cfg.Progress.Message),
		dirsync.WithLogger(log),
	)
	manager := savedata.NewManager(resolver, synchronizer, savedata.WithLogger(log))

	log.DebugWithFields("Resolved directories", map[string]interface{}{
		"live":        resolver.LiveSaveDirectory(),
		"checkpoints": resolver.CheckpointsDirectory(),
		"version":     version,
	})

	return &app{cfg: cfg, resolver: resolver, manager: manager, log: log}, nil
}

// observer returns the progress display for one copy, or nil when animation is off
func (a *app) observer() dirsync.Observer {
	if !a.cfg.Progress.Animate {
		return nil
	}
	return ui.NewProgressBar(os.Stdout)
}

// commandLineFlags collects the flags the user actually set
func commandLineFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	f := cmd.Flags()

	if f.Changed("user-profile") {
		flags["user-profile"] = userProfile
	}
	if f.Changed("app-dir") {
		flags["app-dir"] = appDir
	}
	if f.Changed("steps") {
		flags["steps"] = steps
	}
	if f.Changed("interval") {
		flags["interval"] = interval
	}
	if f.Changed("no-animation") {
		flags["no-animation"] = noAnimation
	}
	if f.Changed("log-level") {
		flags["log-level"] = logLevel
	}
	if f.Changed("log-file") {
		flags["log-file"] = logFile
	}
	return flags
}
