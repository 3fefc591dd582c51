package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/todomanage/internal/todomanage"
	"github.com/colonyops/todomanage/pkg/iojson"
)

// NotificationsCmd implements the notifications command group.
type NotificationsCmd struct {
	flags *Flags
	app   *todomanage.App

	jsonOutput bool
	limit      int
}

// NewNotificationsCmd creates a new notifications command.
func NewNotificationsCmd(flags *Flags, app *todomanage.App) *NotificationsCmd {
	return &NotificationsCmd{flags: flags, app: app}
}

// Register adds the notifications command to the application.
func (cmd *NotificationsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "notifications",
		Usage: "Show the log of delivered reminders",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List delivered reminders, newest first",
				UsageText: "todomanage notifications ls [--limit N] [--json]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "limit",
						Aliases:     []string{"n"},
						Usage:       "maximum number of entries (0 for all)",
						Value:       20,
						Destination: &cmd.limit,
					},
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runLs,
			},
			{
				Name:      "clear",
				Usage:     "Empty your notification log",
				UsageText: "todomanage notifications clear",
				Action:    cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *NotificationsCmd) runLs(ctx context.Context, c *cli.Command) error {
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	list, err := cmd.app.Reminders.Notifications(ctx, user, cmd.limit)
	if err != nil {
		return fmt.Errorf("list notifications: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, n := range list {
			if err := iojson.WriteLine(out, n); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "AT\tTODO\tLEVEL\tMESSAGE")
	for _, n := range list {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", localTime(n.CreatedAt, cmd.app.Clock.Location), n.TodoID, n.Level(), n.Message)
	}
	return tw.Flush()
}

func (cmd *NotificationsCmd) runClear(ctx context.Context, c *cli.Command) error {
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	if err := cmd.app.Reminders.ClearNotifications(ctx, user); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, "cleared")
	return nil
}
