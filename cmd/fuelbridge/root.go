package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petrolhead/fuelbridge/internal/config"
	"github.com/petrolhead/fuelbridge/internal/gdrive"
	"github.com/petrolhead/fuelbridge/internal/lubelogger"
	"github.com/petrolhead/fuelbridge/internal/sync"
)

var (
	dryRun   bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "fuelbridge [config-dir]",
	Short: "Import Fuelio fill-ups into LubeLogger",
	Long: `fuelbridge reconciles fuel fill-up records from Fuelio backups stored in
a Google Drive folder with a self-hosted LubeLogger instance, creating any
records missing from LubeLogger. Runs are idempotent: records already present
are matched structurally and skipped, so the tool is safe to run from cron.`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runSync,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false,
		"report what would be created without writing to LubeLogger")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level override (debug, info, warn, error)")
	rootCmd.AddCommand(initCmd)
}

// runSync loads configuration, builds the collaborator clients and executes
// one reconciliation run. The process exits non-zero when any vehicle
// recorded any failure, even if other records succeeded.
func runSync(cmd *cobra.Command, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	dir, err := config.Dir(arg)
	if err != nil {
		return err
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	lvl, err := parseLogLevel(level)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx := cmd.Context()

	drive, err := gdrive.NewClient(ctx, gdrive.AuthMode(cfg.Drive.AuthMode), gdrive.Credentials{
		ClientSecretsFile:  cfg.Drive.ClientSecretsFile,
		ServiceAccountFile: cfg.Drive.ServiceAccountFile,
		TokenFile:          cfg.Drive.TokenFile,
	})
	if err != nil {
		return err
	}

	lube, err := lubelogger.NewClient(cfg.LubeLogger.URL, cfg.LubeLogger.Username, cfg.LubeLogger.Password)
	if err != nil {
		return err
	}

	precision := cfg.Precision.ToRecord()
	svc, err := sync.New(sync.Config{
		Destination: lube,
		DryRun:      dryRun,
		FolderID:    cfg.Drive.FolderID,
		Logger:      logger,
		Precision:   &precision,
		Source:      drive,
		Vehicles:    cfg.Vehicles,
	})
	if err != nil {
		return err
	}

	result, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	if result.Failed() {
		return fmt.Errorf("%d failure(s) across %d vehicle(s)", result.Failures(), len(result.Vehicles))
	}

	return nil
}

// parseLogLevel converts a config/flag level name to a slog level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}
