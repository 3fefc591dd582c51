package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/todomanage/internal/todomanage"
	"github.com/colonyops/todomanage/pkg/iojson"
)

// ShareCmd implements the share command group.
type ShareCmd struct {
	flags *Flags
	app   *todomanage.App

	jsonOutput bool
}

// NewShareCmd creates a new share command.
func NewShareCmd(flags *Flags, app *todomanage.App) *ShareCmd {
	return &ShareCmd{flags: flags, app: app}
}

// Register adds the share command to the application.
func (cmd *ShareCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "share",
		Usage: "Give other users read-only access to your items",
		Description: `Viewers see every item you own through "todo shared" and "todo show"
but cannot change them.

Examples:
  todomanage share grant bob
  todomanage share revoke bob
  todomanage share ls`,
		Commands: []*cli.Command{
			{
				Name:      "grant",
				Usage:     "Share your items with a user",
				UsageText: "todomanage share grant <user>",
				Action:    cmd.runGrant,
			},
			{
				Name:      "revoke",
				Usage:     "Stop sharing with a user",
				UsageText: "todomanage share revoke <user>",
				Action:    cmd.runRevoke,
			},
			{
				Name:      "list",
				Aliases:   []string{"ls"},
				Usage:     "List who you share with and who shares with you",
				UsageText: "todomanage share ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runLs,
			},
		},
	})

	return app
}

func (cmd *ShareCmd) runGrant(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: todomanage share grant <user>")
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	viewer := c.Args().Get(0)
	if err := cmd.app.Shares.Grant(ctx, user, viewer); err != nil {
		return fmt.Errorf("grant share: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "sharing with %s\n", viewer)
	return nil
}

func (cmd *ShareCmd) runRevoke(ctx context.Context, c *cli.Command) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: todomanage share revoke <user>")
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	viewer := c.Args().Get(0)
	revoked, err := cmd.app.Shares.Revoke(ctx, user, viewer)
	if err != nil {
		return fmt.Errorf("revoke share: %w", err)
	}
	if !revoked {
		_, _ = fmt.Fprintf(c.Root().Writer, "not sharing with %s\n", viewer)
		return nil
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "stopped sharing with %s\n", viewer)
	return nil
}

func (cmd *ShareCmd) runLs(ctx context.Context, c *cli.Command) error {
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	grants, err := cmd.app.Shares.List(ctx, user)
	if err != nil {
		return fmt.Errorf("list shares: %w", err)
	}
	owners, err := cmd.app.Shares.SharedWith(ctx, user)
	if err != nil {
		return fmt.Errorf("list sharing owners: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		viewers := make([]string, 0, len(grants))
		for _, g := range grants {
			viewers = append(viewers, g.ViewerID)
		}
		return iojson.WriteLine(out, map[string][]string{"viewers": viewers, "owners": owners})
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DIRECTION\tUSER")
	for _, g := range grants {
		_, _ = fmt.Fprintf(tw, "shared with\t%s\n", g.ViewerID)
	}
	for _, o := range owners {
		_, _ = fmt.Fprintf(tw, "shared by\t%s\n", o)
	}
	return tw.Flush()
}
