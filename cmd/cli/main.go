package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/device-loans/cmd/cli/commands"
	"github.com/jakechorley/device-loans/internal/config"
	"github.com/jakechorley/device-loans/pkg/metrics"
	"github.com/jakechorley/device-loans/pkg/postgres"
	"github.com/jakechorley/device-loans/pkg/utils/logging"
)

var (
	env      string
	app      = &commands.AppContext{}
	database *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "cli",
		Short:        "Device loans CLI - rank applicants and hand out devices",
		Long:         `A CLI tool for scoring device loan applicants, allocating devices and booking collection appointments.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[commands.SkipInitAnnotation] != "" {
				return nil
			}
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			finishApp()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	_ = rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.InitConfigCmd(&env))
	rootCmd.AddCommand(commands.RegisterApplicantCmd(app))
	rootCmd.AddCommand(commands.ImportApplicantsCmd(app))
	rootCmd.AddCommand(commands.ViewRankingCmd(app))
	rootCmd.AddCommand(commands.AddResourcesCmd(app))
	rootCmd.AddCommand(commands.AllocateCmd(app))
	rootCmd.AddCommand(commands.ListAssignmentsCmd(app))
	rootCmd.AddCommand(commands.MarkDeliveredCmd(app))
	rootCmd.AddCommand(commands.MarkAbsentCmd(app))
	rootCmd.AddCommand(commands.ViewWeightsCmd(app))
	rootCmd.AddCommand(commands.SetWeightCmd(app))
	rootCmd.AddCommand(commands.CommitWeightsCmd(app))
	rootCmd.AddCommand(commands.DiscardWeightsCmd(app))
	rootCmd.AddCommand(commands.ViewStatusCmd(app))
	rootCmd.AddCommand(commands.PublishAssignmentsCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app, os.Stdin))

	err := rootCmd.Execute()
	if database != nil {
		database.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

// initApp sets up config, logger, metrics and the database
func initApp() error {
	app.Env = env
	app.Ctx = context.Background()
	app.Now = time.Now

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Cfg = cfg

	app.Logger, err = logging.InitLogger(env, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Info("Starting application", zap.String("environment", env))
	app.Logger.Debug("Configuration loaded",
		zap.Int("daily_capacity", cfg.DailyCapacity),
		zap.String("appointment_rrule", cfg.AppointmentRRule),
		zap.Bool("release_on_delivery", cfg.ReleaseOnDelivery),
		zap.Bool("sheets_enabled", cfg.Sheets.Enabled()))

	app.Metrics = metrics.NewRecorder()

	app.Logger.Info("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Database = database
	app.Logger.Info("Database initialized successfully")

	return nil
}

// finishApp writes the metrics textfile if configured and flushes the logger
func finishApp() {
	if app.Logger == nil {
		return
	}

	if app.Cfg != nil && app.Cfg.MetricsFile != "" && app.Database != nil {
		if err := commands.RefreshPoolMetrics(app); err != nil {
			app.Logger.Warn("Failed to refresh pool metrics", zap.Error(err))
		}
		if err := app.Metrics.WriteTextfile(app.Cfg.MetricsFile); err != nil {
			app.Logger.Warn("Failed to write metrics file", zap.Error(err), zap.String("path", app.Cfg.MetricsFile))
		}
	}

	_ = app.Logger.Sync()
}
