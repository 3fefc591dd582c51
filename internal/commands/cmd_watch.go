package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/todomanage/internal/core/eventbus"
	"github.com/colonyops/todomanage/internal/core/notify"
	"github.com/colonyops/todomanage/internal/core/status"
	"github.com/colonyops/todomanage/internal/core/styles"
	"github.com/colonyops/todomanage/internal/todomanage"
	"github.com/colonyops/todomanage/internal/todomanage/sweep"
)

// WatchCmd polls reminders in the foreground and prints notifications as
// they are delivered.
type WatchCmd struct {
	flags *Flags
	app   *todomanage.App

	interval time.Duration
	all      bool
}

// NewWatchCmd creates a new watch command.
func NewWatchCmd(flags *Flags, app *todomanage.App) *WatchCmd {
	return &WatchCmd{flags: flags, app: app}
}

// Register adds the watch command to the application.
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Deliver reminders on an interval until interrupted",
		UsageText: "todomanage watch [--interval 1m] [--all]",
		Description: `Runs the reminder sweep every poll interval for every user and prints the
notifications it delivers. Several watchers may share one database; a lease
in the key-value store lets only one of them deliver per interval.`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:        "interval",
				Aliases:     []string{"i"},
				Usage:       "poll interval (defaults to reminders.poll_interval)",
				Destination: &cmd.interval,
			},
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "print notifications for every user",
				Destination: &cmd.all,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	interval := cmd.interval
	if interval <= 0 {
		interval = cmd.app.Config.Reminders.PollInterval
	}

	user := ""
	if !cmd.all {
		var err error
		if user, err = cmd.flags.Requester(); err != nil {
			return err
		}
	}

	out := c.Root().Writer
	var mu sync.Mutex

	eventbus.NewNotificationRouter(cmd.app.Bus).Register()
	cmd.app.Bus.SubscribeNotificationPublished(func(p eventbus.NotificationPublishedPayload) {
		if user != "" && p.OwnerID != user {
			return
		}

		style := styles.ValueStyle
		if p.Level == notify.LevelWarning {
			style = styles.StatusStyle(status.Reassign)
		}

		mu.Lock()
		defer mu.Unlock()
		_, _ = fmt.Fprintf(out, "%s %s %s\n",
			styles.MutedStyle.Render(cmd.app.Clock.Now().In(cmd.app.Clock.Location).Format(time.Kitchen)),
			styles.MutedStyle.Render(p.OwnerID),
			style.Render(p.Message))
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Dur("interval", interval).Msg("watching reminders")
	_, _ = fmt.Fprintf(out, "watching reminders every %s, ctrl-c to stop\n", interval)

	sweep.New(cmd.app.Reminders, cmd.app.KV, interval, log.Logger).Start(ctx)
	return nil
}
