package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/todomanage/internal/core/dashboard"
	"github.com/colonyops/todomanage/internal/core/status"
	"github.com/colonyops/todomanage/internal/core/styles"
	"github.com/colonyops/todomanage/internal/todomanage"
	"github.com/colonyops/todomanage/pkg/iojson"
)

// DashboardCmd prints the done / re-assign / pending rollup.
type DashboardCmd struct {
	flags *Flags
	app   *todomanage.App

	jsonOutput bool
}

// NewDashboardCmd creates a new dashboard command.
func NewDashboardCmd(flags *Flags, app *todomanage.App) *DashboardCmd {
	return &DashboardCmd{flags: flags, app: app}
}

// Register adds the dashboard command to the application.
func (cmd *DashboardCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "dashboard",
		Usage:     "Summarise your items by outcome",
		UsageText: "todomanage dashboard [--json]",
		Description: `Classifies every item by its full history: done if it was ever completed,
otherwise re-assign if it was ever rescheduled, otherwise pending.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DashboardCmd) run(ctx context.Context, c *cli.Command) error {
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	rollup, err := cmd.app.Dashboard.Rollup(ctx, user)
	if err != nil {
		return fmt.Errorf("build dashboard: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, rollup)
	}

	_, _ = fmt.Fprintln(out, renderDashboard(rollup, cmd.app.Clock))
	return nil
}

func renderDashboard(r dashboard.Rollup, clock todomanage.Clock) string {
	count := func(s status.Status, n int) string {
		return styles.StatusStyle(s).Render(fmt.Sprintf("%s %d", s, n))
	}
	counts := func(c dashboard.Counts) string {
		return strings.Join([]string{
			count(status.Done, c.Done),
			count(status.Reassign, c.Reassign),
			count(status.Pending, c.Pending),
		}, "  ")
	}

	sections := []string{
		styles.HeaderStyle.Render("Overall"),
		counts(r.Counts),
		"",
		styles.HeaderStyle.Render("Periods"),
	}
	for _, p := range dashboard.Periods() {
		sections = append(sections, styles.LabelStyle.Render(string(p))+counts(r.Periods[p]))
	}

	rs := r.Reassignments
	sections = append(sections,
		"",
		styles.HeaderStyle.Render("Re-assignments"),
		styles.LabelStyle.Render("total")+styles.ValueStyle.Render(fmt.Sprint(rs.Total)),
		styles.LabelStyle.Render("items")+styles.ValueStyle.Render(fmt.Sprint(rs.ItemsReassigned)),
		styles.LabelStyle.Render("avg to done")+styles.ValueStyle.Render(fmt.Sprintf("%.1f", rs.AvgBeforeCompletion)),
		"",
		styles.HeaderStyle.Render("Recent"),
	)

	if len(r.Recent) == 0 {
		sections = append(sections, styles.MutedStyle.Render("nothing in progress"))
	}
	for _, item := range r.Recent {
		sections = append(sections, fmt.Sprintf("%s %s %s",
			styles.MutedStyle.Render(fmt.Sprintf("#%d", item.ID)),
			styles.StatusStyle(item.Status).Render(string(item.Status)),
			styles.ValueStyle.Render(item.Title)+" "+styles.MutedStyle.Render(localTime(item.ModifiedAt, clock.Location)),
		))
	}

	return styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
