package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/slumber/internal/analysis"
	"github.com/balkashynov/slumber/internal/config"
	"github.com/balkashynov/slumber/internal/db"
	"github.com/balkashynov/slumber/internal/logging"
	"github.com/balkashynov/slumber/internal/sleep"
	"github.com/balkashynov/slumber/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "slumber",
	Short: "A terminal sleep tracker",
	Long: `slumber records your nights from the terminal: when you get into bed,
fall asleep, wake up, visit the toilet and get up. It keeps a history of
finished nights, shows stats over 7, 14 or 30 days and can ask a language
model for a short analysis of your sleep.`,
	SilenceUsage: true,
}

// app is everything a command needs once config, logging and storage are up
type app struct {
	cfg     config.Config
	store   *db.Store
	tracker *sleep.Tracker
	logs    io.Closer
}

// initApp loads the config, sets up logging and opens the store
func initApp() (*app, error) {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	res, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "⚠️  %s\n", w)
	}
	cfg := res.Config

	logs, err := logging.Setup(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	store, err := db.Open(cfg.Storage.DBPath)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &app{
		cfg:     cfg,
		store:   store,
		tracker: sleep.NewTracker(store.Load(), store),
		logs:    logs,
	}, nil
}

func (a *app) close() {
	a.store.Close()
	a.logs.Close()
}

// tuiOptions builds the interactive app options from the config
func (a *app) tuiOptions(days int) tui.Options {
	return tui.Options{
		Tracker:         a.tracker,
		Analyzer:        analysis.NewClient(a.cfg.Analysis),
		Refresh:         time.Duration(a.cfg.Display.RefreshMS) * time.Millisecond,
		StatsDays:       days,
		AnalysisTimeout: time.Duration(a.cfg.Analysis.TimeoutSeconds) * time.Second,
	}
}

// withApp wraps a command function to initialize the app first
func withApp(fn func(*app, *cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := initApp()
		if err != nil {
			return err
		}
		defer a.close()
		return fn(a, cmd, args)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "slumber %s (commit %s, built %s)\n", version, commit, date)
	},
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default ~/.config/slumber/config.toml)")

	rootCmd.AddCommand(bedCmd)
	rootCmd.AddCommand(sleepCmd)
	rootCmd.AddCommand(wakeCmd)
	rootCmd.AddCommand(toiletCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(untoiletCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetHelpCommand(helpCmd)
}
