package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/todomanage/internal/core/styles"
	"github.com/colonyops/todomanage/internal/data/db"
	"github.com/colonyops/todomanage/internal/todomanage"
	"github.com/colonyops/todomanage/internal/todomanage/sweep"
	"github.com/colonyops/todomanage/pkg/iojson"
)

// DbCmd inspects and maintains the local database.
type DbCmd struct {
	flags *Flags
	app   *todomanage.App

	jsonOut bool
	steps   int
}

// NewDbCmd creates a new db command.
func NewDbCmd(flags *Flags, app *todomanage.App) *DbCmd {
	return &DbCmd{flags: flags, app: app}
}

// Register adds the db command to the application.
func (cmd *DbCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "db",
		Usage: "Inspect and maintain the database",
		Commands: []*cli.Command{
			{
				Name:      "status",
				Usage:     "Show applied migrations and the last reminder sweep",
				UsageText: "todomanage db status [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOut,
					},
				},
				Action: cmd.runStatus,
			},
			{
				Name:      "rollback",
				Usage:     "Revert the most recent migrations",
				UsageText: "todomanage db rollback [--steps 1]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "steps",
						Usage:       "number of migrations to revert",
						Value:       1,
						Destination: &cmd.steps,
					},
				},
				Action: cmd.runRollback,
			},
		},
	})

	return app
}

type dbStatus struct {
	Path       string               `json:"path"`
	Migrations []db.MigrationStatus `json:"migrations"`
	LastSweep  *sweep.Report        `json:"last_sweep,omitempty"`
}

func (cmd *DbCmd) runStatus(ctx context.Context, c *cli.Command) error {
	migrations, err := db.Status(ctx, cmd.app.DB.Conn())
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}

	out := dbStatus{Path: cmd.flags.DataDir, Migrations: migrations}

	report, ok, err := sweep.LastReport(ctx, cmd.app.KV)
	if err != nil {
		return fmt.Errorf("last sweep: %w", err)
	}
	if ok {
		out.LastSweep = &report
	}

	w := c.Root().Writer
	if cmd.jsonOut {
		return iojson.WriteWith(w, c.Root().ErrWriter, out)
	}

	_, _ = fmt.Fprintln(w, styles.HeaderStyle.Render("Migrations"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED")
	for _, m := range migrations {
		applied := styles.MutedStyle.Render("pending")
		if m.AppliedAt != nil {
			applied = localTime(*m.AppliedAt, cmd.app.Clock.Location)
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", m.Version, m.Name, applied)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, styles.HeaderStyle.Render("Last reminder sweep"))
	if out.LastSweep == nil {
		_, _ = fmt.Fprintln(w, styles.MutedStyle.Render("never"))
		return nil
	}

	r := out.LastSweep
	_, _ = fmt.Fprintf(w, "%s %s\n", styles.LabelStyle.Render("ran at:"), localTime(r.RanAt, cmd.app.Clock.Location))
	_, _ = fmt.Fprintf(w, "%s %s\n", styles.LabelStyle.Render("holder:"), r.Holder)
	_, _ = fmt.Fprintf(w, "%s %d sent, %d failed, %d expired keys\n", styles.LabelStyle.Render("result:"), r.Sent, r.Failed, r.Expired)
	if r.LastErr != "" {
		_, _ = fmt.Fprintf(w, "%s %s\n", styles.LabelStyle.Render("error:"), styles.ErrorStyle.Render(r.LastErr))
	}
	return nil
}

func (cmd *DbCmd) runRollback(ctx context.Context, c *cli.Command) error {
	if cmd.steps < 1 {
		return fmt.Errorf("--steps must be at least 1")
	}

	if err := db.MigrateDown(ctx, cmd.app.DB.Conn(), cmd.steps); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "reverted %d migration(s)\n", cmd.steps)
	return nil
}
