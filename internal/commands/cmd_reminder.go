package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/todomanage/internal/todomanage"
	"github.com/colonyops/todomanage/pkg/iojson"
)

// ReminderCmd implements the reminder command group.
type ReminderCmd struct {
	flags *Flags
	app   *todomanage.App

	jsonOutput bool
	at         string
	before     string
	all        bool
}

// NewReminderCmd creates a new reminder command.
func NewReminderCmd(flags *Flags, app *todomanage.App) *ReminderCmd {
	return &ReminderCmd{flags: flags, app: app}
}

func (cmd *ReminderCmd) jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:        "json",
		Usage:       "output as JSON",
		Destination: &cmd.jsonOutput,
	}
}

// Register adds the reminder command to the application.
func (cmd *ReminderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "reminder",
		Usage: "Arm, cancel and deliver reminders",
		Description: `A reminder fires at most three times. The first notification goes out once
the reminder time has passed; the second needs 30 minutes since the first and
the third 60 minutes since the first. After the third the reminder closes.

Examples:
  todomanage reminder set 3 --at "2026-05-02 08:30"
  todomanage reminder set 3 --before 2h
  todomanage reminder check
  todomanage reminder process`,
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Arm the reminder of an item",
				UsageText: "todomanage reminder set <id> (--at <time> | --before <offset>)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "at",
						Usage:       "reminder time (RFC 3339 or YYYY-MM-DD HH:MM in the configured timezone)",
						Destination: &cmd.at,
					},
					&cli.StringFlag{
						Name:        "before",
						Usage:       "offset before the item's scheduled time (e.g. 45m, 2h, 1d)",
						Destination: &cmd.before,
					},
				},
				Action: cmd.runSet,
			},
			{
				Name:      "clear",
				Usage:     "Remove the reminder of an item",
				UsageText: "todomanage reminder clear <id>",
				Action:    cmd.runClear,
			},
			{
				Name:      "cancel",
				Usage:     "Retire the reminder of an item and reset its counters",
				UsageText: "todomanage reminder cancel <id>",
				Action:    cmd.runCancel,
			},
			{
				Name:      "check",
				Usage:     "List reminders that would fire now without delivering them",
				UsageText: "todomanage reminder check [--all]",
				Flags:     []cli.Flag{cmd.allFlag(), cmd.jsonFlag()},
				Action:    cmd.runCheck,
			},
			{
				Name:      "process",
				Usage:     "Deliver due reminders",
				UsageText: "todomanage reminder process [--all]",
				Flags:     []cli.Flag{cmd.allFlag(), cmd.jsonFlag()},
				Action:    cmd.runProcess,
			},
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List enabled reminders",
				UsageText: "todomanage reminder ls",
				Flags:     []cli.Flag{cmd.jsonFlag()},
				Action:    cmd.runLs,
			},
			{
				Name:      "should-auto-close",
				Usage:     "Report whether all notifications fired within one interval",
				UsageText: "todomanage reminder should-auto-close <id>",
				Action:    cmd.runShouldAutoClose,
			},
		},
	})

	return app
}

func (cmd *ReminderCmd) allFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:        "all",
		Usage:       "include every user, not just the current one",
		Destination: &cmd.all,
	}
}

// owner returns "" for --all and the requester otherwise.
func (cmd *ReminderCmd) owner() (string, error) {
	if cmd.all {
		return "", nil
	}
	return cmd.flags.Requester()
}

func (cmd *ReminderCmd) runSet(ctx context.Context, c *cli.Command) error {
	id, err := argID(c, "todomanage reminder set <id> (--at <time> | --before <offset>)")
	if err != nil {
		return err
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	item, err := cmd.app.Reminders.Set(ctx, user, id, todomanage.ReminderInput{At: cmd.at, Before: cmd.before})
	if err != nil {
		return fmt.Errorf("set reminder: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%d: reminder at %s\n", id, localTime(*item.Reminder.At, cmd.app.Clock.Location))
	return nil
}

func (cmd *ReminderCmd) runClear(ctx context.Context, c *cli.Command) error {
	id, err := argID(c, "todomanage reminder clear <id>")
	if err != nil {
		return err
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	if _, err := cmd.app.Reminders.Clear(ctx, user, id); err != nil {
		return fmt.Errorf("clear reminder: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%d: reminder cleared\n", id)
	return nil
}

func (cmd *ReminderCmd) runCancel(ctx context.Context, c *cli.Command) error {
	id, err := argID(c, "todomanage reminder cancel <id>")
	if err != nil {
		return err
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	_, err = cmd.app.Reminders.Cancel(ctx, user, id)
	if errors.Is(err, todomanage.ErrNoReminder) {
		_, _ = fmt.Fprintf(c.Root().Writer, "%d: no enabled reminder\n", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("cancel reminder: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%d: reminder cancelled\n", id)
	return nil
}

func (cmd *ReminderCmd) runCheck(ctx context.Context, c *cli.Command) error {
	owner, err := cmd.owner()
	if err != nil {
		return err
	}

	due, err := cmd.app.Reminders.Pending(ctx, owner)
	if err != nil {
		return fmt.Errorf("check reminders: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteLine(out, due)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tOWNER\tNEXT\tREMINDER\tTITLE")
	for _, d := range due {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t#%d\t%s\t%s\n",
			d.TodoID, d.OwnerID, d.Sequence(), localTime(d.ReminderAt, cmd.app.Clock.Location), d.Title)
	}
	return tw.Flush()
}

func (cmd *ReminderCmd) runProcess(ctx context.Context, c *cli.Command) error {
	owner, err := cmd.owner()
	if err != nil {
		return err
	}

	report, err := cmd.app.Reminders.Process(ctx, owner)
	if err != nil {
		return fmt.Errorf("process reminders: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteLine(out, report)
	}

	for _, n := range report.Sent {
		_, _ = fmt.Fprintf(out, "%s: %s\n", n.Title, n.Message)
	}
	for _, f := range report.Failures {
		_, _ = fmt.Fprintf(out, "failed %d: %s\n", f.TodoID, f.Error)
	}
	_, _ = fmt.Fprintf(out, "sent %d, failed %d\n", len(report.Sent), len(report.Failures))
	return nil
}

func (cmd *ReminderCmd) runLs(ctx context.Context, c *cli.Command) error {
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	views, err := cmd.app.Reminders.List(ctx, user)
	if err != nil {
		return fmt.Errorf("list reminders: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, v := range views {
			if err := iojson.WriteLine(out, v); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tAT\tSTATE\tSENT\tTITLE")
	for _, v := range views {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			v.TodoID, localTime(*v.ReminderAt, cmd.app.Clock.Location), v.State, v.Count, v.Title)
	}
	return tw.Flush()
}

func (cmd *ReminderCmd) runShouldAutoClose(ctx context.Context, c *cli.Command) error {
	id, err := argID(c, "todomanage reminder should-auto-close <id>")
	if err != nil {
		return err
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	ok, err := cmd.app.Reminders.ShouldAutoClose(ctx, user, id)
	if err != nil {
		return fmt.Errorf("check auto-close: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, ok)
	return nil
}
