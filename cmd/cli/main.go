package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/runroster/cmd/cli/commands"
	"github.com/jakechorley/runroster/internal/config"
	"github.com/jakechorley/runroster/pkg/core/model"
	"github.com/jakechorley/runroster/pkg/core/regulars"
	"github.com/jakechorley/runroster/pkg/core/services"
	"github.com/jakechorley/runroster/pkg/kv"
	"github.com/jakechorley/runroster/pkg/store"
	"github.com/jakechorley/runroster/pkg/utils/logging"
)

var (
	env        string
	configPath string
	ephemeral  bool
	verbose    bool
	app        = &commands.AppContext{}
	backend    kv.Store
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "runroster",
		Short: "Run club roster - sign up for runs and log your miles",
		Long:  `A CLI tool for signing up to the coming week's runs, logging mileage and tracking the club leaderboard.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects runroster_config.<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (overrides --env lookup)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the roster in memory only")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")

	rootCmd.AddCommand(commands.WeekCmd(app))
	rootCmd.AddCommand(commands.HistoryCmd(app))
	rootCmd.AddCommand(commands.LeaderboardCmd(app))
	rootCmd.AddCommand(commands.AddCmd(app))
	rootCmd.AddCommand(commands.ToggleCmd(app))
	rootCmd.AddCommand(commands.MilesCmd(app))
	rootCmd.AddCommand(commands.RemoveCmd(app))
	rootCmd.AddCommand(commands.RegularsCmd(app))
	rootCmd.AddCommand(commands.MotivateCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		closeApp()
		os.Exit(1)
	}
}

// initApp sets up config, logger, storage, quote client and the roster session
func initApp() error {
	var err error
	app.Ctx = context.Background()

	// Load configuration
	if configPath != "" {
		app.Cfg, err = config.LoadFromPath(configPath)
	} else {
		app.Cfg, err = config.LoadWithEnv(env)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	app.Logger, err = logging.InitLogger(logging.Options{Env: env, Dir: app.Cfg.Logging.Dir, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Info("Starting application", zap.String("environment", env), zap.String("backend", app.Cfg.Storage.Backend))

	loc, err := app.Cfg.Location()
	if err != nil {
		return err
	}

	// Open storage; an unusable backend leaves the roster in memory for this run
	backend = openBackend(app.Ctx, app.Cfg, ephemeral, app.Logger)

	quotes := newQuoteFetcher(app.Ctx, app.Cfg, app.Logger)

	regs := make([]regulars.Regular, 0, len(app.Cfg.Regulars))
	for _, r := range app.Cfg.Regulars {
		regs = append(regs, regulars.Regular{Name: r.Name, RRule: r.RRule, Start: r.Start})
	}

	session := services.OpenSession(
		app.Ctx,
		store.NewAdapter[model.RosterCollection](backend, app.Logger),
		app.Logger,
		services.SessionOptions{
			Key:      app.Cfg.Storage.Key,
			Location: loc,
			Quotes:   quotes,
			Regulars: regs,
		},
	)
	if session.PersistFailures() > 0 {
		fmt.Fprintln(os.Stderr, "⚠️  Roster storage is unavailable; changes will be kept in memory only (see logs)")
	}
	app.SetSession(session)

	app.Logger.Debug("Session opened", zap.String("today", session.Today()))
	return nil
}

func closeApp() {
	app.Wait()
	if backend != nil {
		if err := backend.Close(); err != nil && app.Logger != nil {
			app.Logger.Warn("Failed to close storage", zap.Error(err))
		}
		backend = nil
	}
	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
}
