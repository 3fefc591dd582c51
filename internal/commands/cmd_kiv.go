package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/todomanage/internal/todomanage"
	"github.com/colonyops/todomanage/pkg/iojson"
)

// KivCmd implements the keep-in-view command group.
type KivCmd struct {
	flags *Flags
	app   *todomanage.App

	jsonOutput bool
}

// NewKivCmd creates a new kiv command.
func NewKivCmd(flags *Flags, app *todomanage.App) *KivCmd {
	return &KivCmd{flags: flags, app: app}
}

// Register adds the kiv command to the application.
func (cmd *KivCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "kiv",
		Usage: "Set items aside in keep-in-view",
		Description: `Keep-in-view parks an item without changing its status history.

Examples:
  todomanage kiv add 3
  todomanage kiv rm 3
  todomanage kiv ls`,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Set an item aside",
				UsageText: "todomanage kiv add <id>",
				Action:    cmd.runAdd,
			},
			{
				Name:      "rm",
				Usage:     "Return an item to the active list",
				UsageText: "todomanage kiv rm <id>",
				Action:    cmd.runRm,
			},
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List items set aside",
				UsageText: "todomanage kiv ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runLs,
			},
		},
	})

	return app
}

func (cmd *KivCmd) runAdd(ctx context.Context, c *cli.Command) error {
	id, err := argID(c, "todomanage kiv add <id>")
	if err != nil {
		return err
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	if _, err := cmd.app.Kiv.Enter(ctx, user, id); err != nil {
		return fmt.Errorf("enter kiv: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%d: kept in view\n", id)
	return nil
}

func (cmd *KivCmd) runRm(ctx context.Context, c *cli.Command) error {
	id, err := argID(c, "todomanage kiv rm <id>")
	if err != nil {
		return err
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	exited, err := cmd.app.Kiv.Exit(ctx, user, id)
	if err != nil {
		return fmt.Errorf("exit kiv: %w", err)
	}
	if !exited {
		_, _ = fmt.Fprintf(c.Root().Writer, "%d: was not in keep-in-view\n", id)
		return nil
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "%d: back in the active list\n", id)
	return nil
}

func (cmd *KivCmd) runLs(ctx context.Context, c *cli.Command) error {
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	items, err := cmd.app.Kiv.List(ctx, user)
	if err != nil {
		return fmt.Errorf("list kiv: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, it := range items {
			if err := iojson.WriteLine(out, it); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSINCE\tTITLE")
	for _, it := range items {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", it.Item.ID, localTime(it.Entry.EnteredAt, cmd.app.Clock.Location), it.Item.Title)
	}
	return tw.Flush()
}
