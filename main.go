package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/todomanage/internal/commands"
	"github.com/colonyops/todomanage/internal/core/config"
	"github.com/colonyops/todomanage/internal/core/eventbus"
	"github.com/colonyops/todomanage/internal/core/logging"
	"github.com/colonyops/todomanage/internal/core/styles"
	"github.com/colonyops/todomanage/internal/data/db"
	"github.com/colonyops/todomanage/internal/data/stores"
	"github.com/colonyops/todomanage/internal/todomanage"
	"github.com/colonyops/todomanage/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		todoApp   = &todomanage.App{}
		database  *db.DB
		busCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "todomanage",
		Usage:     "Track todos through their lifecycle and get reminded",
		UsageText: "todomanage [global options] command [command options]",
		Description: `todomanage keeps todo items in a local database and records every status
change as an event: new, done, failed, re-assign and kiv.

Items can be parked in the keep-in-view queue, shared read-only with other
users, and given a reminder that is sent up to three times, thirty minutes
apart, before it closes itself.

Run 'todomanage watch' to deliver reminders in the foreground.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TODOMANAGE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/todomanage.log)",
				Sources:     cli.EnvVars("TODOMANAGE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TODOMANAGE_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TODOMANAGE_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "user",
				Aliases:     []string{"u"},
				Usage:       "user to act as (defaults to user in the config file)",
				Sources:     cli.EnvVars("TODOMANAGE_USER"),
				Destination: &flags.User,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "todomanage.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Load only checks structure; an unknown theme falls back to the default.
			palette, ok := styles.ResolvePalette(cfg.Theme)
			if !ok {
				log.Warn().Str("theme", cfg.Theme).Str("fallback", styles.DefaultTheme).Msg("unknown theme, using default")
			}
			styles.SetTheme(palette)

			dbOpts := db.OpenOptions{
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
				BusyTimeout:  cfg.Database.BusyTimeout,
			}
			database, err = db.Open(cfg.DataDir, dbOpts)
			if err != nil && stores.IsCorruptionError(err) {
				backup, rerr := stores.RecoverFromCorruption(cfg.DataDir)
				if rerr != nil {
					return ctx, fmt.Errorf("recover corrupt database: %w", rerr)
				}
				log.Warn().Str("backup", backup).Msg("database was corrupt, moved aside and recreated")
				database, err = db.Open(cfg.DataDir, dbOpts)
			}
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			bus := eventbus.New(256)
			eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))

			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			go bus.Start(busCtx)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*todoApp = *todomanage.NewApp(
				cfg,
				database,
				bus,
				todomanage.SystemClock(cfg.Location()),
				logging.Component("todomanage"),
			)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if busCancel != nil {
				busCancel()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewTodoCmd(flags, todoApp).Register(app)
	app = commands.NewKivCmd(flags, todoApp).Register(app)
	app = commands.NewReminderCmd(flags, todoApp).Register(app)
	app = commands.NewDashboardCmd(flags, todoApp).Register(app)
	app = commands.NewShareCmd(flags, todoApp).Register(app)
	app = commands.NewNotificationsCmd(flags, todoApp).Register(app)
	app = commands.NewWatchCmd(flags, todoApp).Register(app)
	app = commands.NewDbCmd(flags, todoApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
