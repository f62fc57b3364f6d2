package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/timewise/internal/cli"
	"github.com/julianstephens/timewise/internal/cli/activities"
	"github.com/julianstephens/timewise/internal/cli/backups"
	"github.com/julianstephens/timewise/internal/cli/goals"
	"github.com/julianstephens/timewise/internal/cli/reports"
	"github.com/julianstephens/timewise/internal/cli/system"
	"github.com/julianstephens/timewise/internal/config"
	"github.com/julianstephens/timewise/internal/constants"
	"github.com/julianstephens/timewise/internal/errors"
	"github.com/julianstephens/timewise/internal/logger"
	"github.com/julianstephens/timewise/internal/storage/sqlite"
)

var CLI struct {
	Version  kong.VersionFlag
	DB       string `name:"db" help:"Database file path. Overrides TIMEWISE_DB." type:"path"`
	Timezone string `help:"IANA timezone used for day boundaries. Overrides TIMEWISE_TIMEZONE."`
	Debug    bool   `help:"Log debug output to stderr."`

	Today    reports.TodayCmd `cmd:"" help:"Show today's dashboard." default:"1"`
	Week     reports.WeekCmd  `cmd:"" help:"Show weekly history."`
	Coach    reports.CoachCmd `cmd:"" help:"Get AI coaching on today."`
	Activity struct {
		Add    activities.ActivityAddCmd    `cmd:"" help:"Log an activity."`
		List   activities.ActivityListCmd   `cmd:"" help:"List logged activities."`
		Delete activities.ActivityDeleteCmd `cmd:"" help:"Delete an activity."`
	} `cmd:"" help:"Manage activities."`
	Goal struct {
		Add    goals.GoalAddCmd    `cmd:"" help:"Add a goal."`
		List   goals.GoalListCmd   `cmd:"" help:"List goals with today's progress."`
		Advise goals.GoalAdviseCmd `cmd:"" help:"Refresh AI advice for a goal."`
		Delete goals.GoalDeleteCmd `cmd:"" help:"Delete a goal."`
	} `cmd:"" help:"Manage goals."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	APIKey struct {
		Set    system.APIKeySetCmd    `cmd:"" help:"Store the Gemini API key in the OS keyring."`
		Delete system.APIKeyDeleteCmd `cmd:"" help:"Remove the Gemini API key from the OS keyring."`
		Status system.APIKeyStatusCmd `cmd:"" help:"Show where the API key is configured."`
	} `cmd:"" name:"apikey" help:"Manage the Gemini API key."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Activity tracking with goals, weekly trends and AI coaching"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg := config.Load()
	if CLI.DB != "" {
		cfg.DBPath = config.ExpandHome(CLI.DB)
		if os.Getenv(constants.EnvLegacyFile) == "" {
			cfg.LegacyFile = config.DefaultLegacyFile(cfg.DBPath)
		}
	}
	if CLI.Timezone != "" {
		cfg.Timezone = CLI.Timezone
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir()}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("Starting timewise", "command", ctx.Command(), "db", cfg.DBPath)

	store := sqlite.NewStore(cfg.DBPath)
	if err := store.Init(context.Background()); err != nil {
		// The session still starts with empty collections; only commands
		// that need the database directly fail.
		logger.Error("Failed to open database", "path", cfg.DBPath, "error", err)
	}

	appCtx := &cli.Context{
		Config: cfg,
		Store:  store,
	}

	err := ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close database", "error", closeErr)
	}
	errors.Fatal(err)
}
