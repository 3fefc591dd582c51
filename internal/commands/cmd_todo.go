package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/todomanage/internal/core/styles"
	"github.com/colonyops/todomanage/internal/core/todo"
	"github.com/colonyops/todomanage/internal/render"
	"github.com/colonyops/todomanage/internal/todomanage"
	"github.com/colonyops/todomanage/pkg/iojson"
)

// TodoCmd implements the todo command group.
type TodoCmd struct {
	flags *Flags
	app   *todomanage.App

	jsonOutput bool

	// add / edit flags
	title    string
	details  string
	schedule string
	date     string
	file     string
	bypass   bool

	// ls flags
	day string

	// show flags
	plain bool

	importReader iojson.FileReader[[]importItem]
}

// importItem is one entry of a JSON import file.
type importItem struct {
	Title    string `json:"title"`
	Details  string `json:"details"`
	Schedule string `json:"schedule"`
	Date     string `json:"date"`
	RemindAt string `json:"remind_at"`
}

// NewTodoCmd creates a new todo command.
func NewTodoCmd(flags *Flags, app *todomanage.App) *TodoCmd {
	return &TodoCmd{flags: flags, app: app}
}

func (cmd *TodoCmd) todos() *todomanage.TodoService {
	return cmd.app.Todos
}

// Register adds the todo command to the application.
func (cmd *TodoCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "todo",
		Usage: "Create, edit and complete todo items",
		Description: `Todo commands manage the lifecycle of your items. Every change is
recorded as a status event: new, done, failed or re-assign.

Examples:
  todomanage todo add --title "Buy milk"
  todomanage todo add --title "Dentist" --schedule custom --date 2026-05-02
  todomanage todo add --file plan.md
  todomanage todo edit 3 --schedule tomorrow
  todomanage todo done 3
  todomanage todo ls --day tomorrow`,
		Commands: []*cli.Command{
			cmd.addCmd(),
			cmd.importCmd(),
			cmd.editCmd(),
			cmd.doneCmd(),
			cmd.failCmd(),
			cmd.rmCmd(),
			cmd.showCmd(),
			cmd.statusCmd(),
			cmd.historyCmd(),
			cmd.lsCmd(),
			cmd.undoneCmd(),
			cmd.sharedCmd(),
		},
	})

	return app
}

func (cmd *TodoCmd) jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:        "json",
		Usage:       "output as JSON lines",
		Destination: &cmd.jsonOutput,
	}
}

func (cmd *TodoCmd) scheduleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "schedule",
			Aliases:     []string{"s"},
			Usage:       "day to schedule for (today, tomorrow, custom)",
			Value:       string(todo.Today),
			Destination: &cmd.schedule,
		},
		&cli.StringFlag{
			Name:        "date",
			Usage:       "date for --schedule custom (YYYY-MM-DD)",
			Destination: &cmd.date,
		},
	}
}

func (cmd *TodoCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a todo item",
		UsageText: "todomanage todo add --title <title> [--details <markdown>] [--schedule today|tomorrow|custom] [--date YYYY-MM-DD]",
		Description: `Creates a todo item. With --file the item is read from a markdown document
whose optional front matter may set title, schedule, date and remind_at.
Without a front matter title the first "# " heading is used.`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "item title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "details",
				Aliases:     []string{"d"},
				Usage:       "item details (markdown)",
				Destination: &cmd.details,
			},
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "markdown document to create the item from",
				Destination: &cmd.file,
			},
			cmd.jsonFlag(),
		}, cmd.scheduleFlags()...),
		Action: cmd.runAdd,
	}
}

func (cmd *TodoCmd) importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Create todo items from a JSON array",
		UsageText: "todomanage todo import [-f items.json]",
		Description: `Reads a JSON array of items from a file or stdin. Each item accepts
title, details, schedule, date and remind_at.

Example:
  echo '[{"title":"Pay rent","schedule":"tomorrow","remind_at":"2026-05-02 09:00"}]' | todomanage todo import`,
		Flags:  []cli.Flag{cmd.importReader.Flag(), cmd.jsonFlag()},
		Action: cmd.runImport,
	}
}

func (cmd *TodoCmd) editCmd() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit or reschedule a todo item",
		UsageText: "todomanage todo edit <id> [--title <title>] [--details <markdown>] [--schedule ...] [--bypass]",
		Description: `Edits an item. Omitted title or details keep their current value.

Rescheduling to tomorrow or a custom date records re-assign at the target.
An unchanged edit of an item already on today's schedule is rejected unless
--bypass is given.`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "title",
				Aliases:     []string{"t"},
				Usage:       "new title",
				Destination: &cmd.title,
			},
			&cli.StringFlag{
				Name:        "details",
				Aliases:     []string{"d"},
				Usage:       "new details (markdown)",
				Destination: &cmd.details,
			},
			&cli.BoolFlag{
				Name:        "bypass",
				Usage:       "bump the timestamp even when nothing changed",
				Destination: &cmd.bypass,
			},
			cmd.jsonFlag(),
		}, cmd.scheduleFlags()...),
		Action: cmd.runEdit,
	}
}

func (cmd *TodoCmd) doneCmd() *cli.Command {
	return &cli.Command{
		Name:      "done",
		Usage:     "Mark a todo item done",
		UsageText: "todomanage todo done <id>",
		Flags:     []cli.Flag{cmd.jsonFlag()},
		Action:    cmd.runDone,
	}
}

func (cmd *TodoCmd) failCmd() *cli.Command {
	return &cli.Command{
		Name:      "fail",
		Usage:     "Mark a todo item failed",
		UsageText: "todomanage todo fail <id>",
		Flags:     []cli.Flag{cmd.jsonFlag()},
		Action:    cmd.runFail,
	}
}

func (cmd *TodoCmd) rmCmd() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Delete a todo item and its history",
		UsageText: "todomanage todo rm <id>",
		Action:    cmd.runRm,
	}
}

func (cmd *TodoCmd) showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a todo item",
		UsageText: "todomanage todo show <id> [--plain]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "render details without colors",
				Destination: &cmd.plain,
			},
			cmd.jsonFlag(),
		},
		Action: cmd.runShow,
	}
}

func (cmd *TodoCmd) statusCmd() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Print the current status of a todo item",
		UsageText: "todomanage todo status <id>",
		Action:    cmd.runStatus,
	}
}

func (cmd *TodoCmd) historyCmd() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "List the status events of a todo item",
		UsageText: "todomanage todo history <id>",
		Flags:     []cli.Flag{cmd.jsonFlag()},
		Action:    cmd.runHistory,
	}
}

func (cmd *TodoCmd) lsCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List items modified on one day",
		UsageText: "todomanage todo ls [--day today|tomorrow]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "day",
				Usage:       "day to list (today, tomorrow)",
				Value:       string(todo.Today),
				Destination: &cmd.day,
			},
			cmd.jsonFlag(),
		},
		Action: cmd.runLs,
	}
}

func (cmd *TodoCmd) undoneCmd() *cli.Command {
	return &cli.Command{
		Name:      "undone",
		Usage:     "List items that are not done, keep-in-view first",
		UsageText: "todomanage todo undone",
		Flags:     []cli.Flag{cmd.jsonFlag()},
		Action:    cmd.runUndone,
	}
}

func (cmd *TodoCmd) sharedCmd() *cli.Command {
	return &cli.Command{
		Name:      "shared",
		Usage:     "List items other users share with you",
		UsageText: "todomanage todo shared",
		Flags:     []cli.Flag{cmd.jsonFlag()},
		Action:    cmd.runShared,
	}
}

func (cmd *TodoCmd) runAdd(ctx context.Context, c *cli.Command) error {
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	var item todo.Item
	if cmd.file != "" {
		data, err := os.ReadFile(cmd.file)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		item, err = cmd.todos().Import(ctx, user, string(data))
		if err != nil {
			return fmt.Errorf("create todo: %w", err)
		}
	} else {
		item, err = cmd.todos().Create(ctx, user, todo.CreateInput{
			Title:    cmd.title,
			Details:  cmd.details,
			Schedule: todo.Schedule{Choice: todo.ScheduleChoice(cmd.schedule), Date: cmd.date},
		})
		if err != nil {
			return fmt.Errorf("create todo: %w", err)
		}
	}

	return writeDone(c.Root().Writer, cmd.jsonOutput, item, "created %d", item.ID)
}

func (cmd *TodoCmd) runImport(ctx context.Context, c *cli.Command) error {
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	entries, err := cmd.importReader.Read(c.Root().Reader)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	for i, e := range entries {
		doc := importDocument(e)
		item, err := cmd.todos().Import(ctx, user, doc)
		if err != nil {
			return fmt.Errorf("import item %d: %w", i, err)
		}
		if err := writeDone(out, cmd.jsonOutput, item, "created %d", item.ID); err != nil {
			return err
		}
	}
	return nil
}

// importDocument renders a JSON import entry as a front matter document so it
// goes through the same path as markdown files.
func importDocument(e importItem) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", e.Title)
	if e.Schedule != "" {
		fmt.Fprintf(&b, "schedule: %q\n", e.Schedule)
	}
	if e.Date != "" {
		fmt.Fprintf(&b, "date: %q\n", e.Date)
	}
	if e.RemindAt != "" {
		fmt.Fprintf(&b, "remind_at: %q\n", e.RemindAt)
	}
	b.WriteString("---\n")
	b.WriteString(e.Details)
	return b.String()
}

func (cmd *TodoCmd) runEdit(ctx context.Context, c *cli.Command) error {
	id, err := argID(c, "todomanage todo edit <id>")
	if err != nil {
		return err
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	current, err := cmd.todos().Get(ctx, user, id)
	if err != nil {
		return fmt.Errorf("load todo: %w", err)
	}

	in := todo.UpdateInput{
		Title:    current.Title,
		Details:  current.Details,
		Schedule: todo.Schedule{Choice: todo.ScheduleChoice(cmd.schedule), Date: cmd.date},
		Bypass:   cmd.bypass,
	}
	if c.IsSet("title") {
		in.Title = cmd.title
	}
	if c.IsSet("details") {
		in.Details = cmd.details
	}

	item, ev, err := cmd.todos().Update(ctx, user, id, in)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}

	return writeDone(c.Root().Writer, cmd.jsonOutput, ev, "%d: %s", item.ID, ev.Status)
}

func (cmd *TodoCmd) runDone(ctx context.Context, c *cli.Command) error {
	id, err := argID(c, "todomanage todo done <id>")
	if err != nil {
		return err
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	_, ev, err := cmd.todos().MarkDone(ctx, user, id)
	if err != nil {
		return fmt.Errorf("complete todo: %w", err)
	}
	return writeDone(c.Root().Writer, cmd.jsonOutput, ev, "%d: done", id)
}

func (cmd *TodoCmd) runFail(ctx context.Context, c *cli.Command) error {
	id, err := argID(c, "todomanage todo fail <id>")
	if err != nil {
		return err
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	_, ev, err := cmd.todos().MarkFailed(ctx, user, id)
	if err != nil {
		return fmt.Errorf("fail todo: %w", err)
	}
	return writeDone(c.Root().Writer, cmd.jsonOutput, ev, "%d: failed", id)
}

func (cmd *TodoCmd) runRm(ctx context.Context, c *cli.Command) error {
	id, err := argID(c, "todomanage todo rm <id>")
	if err != nil {
		return err
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	if err := cmd.todos().Delete(ctx, user, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, "deleted")
	return nil
}

func (cmd *TodoCmd) runShow(ctx context.Context, c *cli.Command) error {
	id, err := argID(c, "todomanage todo show <id>")
	if err != nil {
		return err
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	view, err := cmd.todos().Get(ctx, user, id)
	if err != nil {
		return fmt.Errorf("load todo: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteLine(out, view)
	}

	loc := cmd.app.Clock.Location
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, styles.LabelStyle.Render(label), styles.ValueStyle.Render(value))
	}

	lines := []string{
		styles.TitleStyle.Render(view.Title),
		row("id", fmt.Sprintf("%d", view.ID)),
		row("status", styles.StatusStyle(view.Status).Render(string(view.Status))),
		row("owner", view.OwnerID),
		row("scheduled", localTime(view.TargetAt, loc)),
		row("modified", localTime(view.ModifiedAt, loc)),
	}
	if view.InKIV {
		lines = append(lines, row("kiv", "yes"))
	}
	if view.Reminder.At != nil {
		lines = append(lines, row("reminder", fmt.Sprintf("%s (%s, %d sent)",
			localTime(*view.Reminder.At, loc), view.Reminder.State(cmd.app.Clock.Now()), view.Reminder.Progress.Count())))
	}
	if view.ReadOnly {
		lines = append(lines, styles.MutedStyle.Render("shared with you, read-only"))
	}

	_, _ = fmt.Fprintln(out, styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))

	if view.Details != "" {
		_, _ = fmt.Fprint(out, render.Terminal(terminalWidth(), cmd.plain, view.Details))
	}
	return nil
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func (cmd *TodoCmd) runStatus(ctx context.Context, c *cli.Command) error {
	id, err := argID(c, "todomanage todo status <id>")
	if err != nil {
		return err
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	st, err := cmd.todos().CurrentStatus(ctx, user, id)
	if err != nil {
		return fmt.Errorf("current status: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, st)
	return nil
}

func (cmd *TodoCmd) runHistory(ctx context.Context, c *cli.Command) error {
	id, err := argID(c, "todomanage todo history <id>")
	if err != nil {
		return err
	}
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	history, err := cmd.todos().History(ctx, user, id)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, ev := range history {
			if err := iojson.WriteLine(out, ev); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "EVENT\tSTATUS\tAT")
	for _, ev := range history {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", ev.ID, ev.Status, localTime(ev.Timestamp, cmd.app.Clock.Location))
	}
	return tw.Flush()
}

func (cmd *TodoCmd) runLs(ctx context.Context, c *cli.Command) error {
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	views, err := cmd.todos().ListDay(ctx, user, todo.ScheduleChoice(cmd.day))
	if err != nil {
		return fmt.Errorf("list todos: %w", err)
	}
	return writeViews(c.Root().Writer, views, cmd.jsonOutput, cmd.app.Clock.Location)
}

func (cmd *TodoCmd) runUndone(ctx context.Context, c *cli.Command) error {
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	undone, err := cmd.todos().Undone(ctx, user)
	if err != nil {
		return fmt.Errorf("list undone: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteLine(out, undone)
	}

	_, _ = fmt.Fprintln(out, styles.HeaderStyle.Render("Keep in view"))
	if err := writeViews(out, undone.KIV, false, cmd.app.Clock.Location); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, styles.HeaderStyle.Render("Active"))
	return writeViews(out, undone.Active, false, cmd.app.Clock.Location)
}

func (cmd *TodoCmd) runShared(ctx context.Context, c *cli.Command) error {
	user, err := cmd.flags.Requester()
	if err != nil {
		return err
	}

	views, err := cmd.todos().ListShared(ctx, user)
	if err != nil {
		return fmt.Errorf("list shared: %w", err)
	}
	return writeViews(c.Root().Writer, views, cmd.jsonOutput, cmd.app.Clock.Location)
}
