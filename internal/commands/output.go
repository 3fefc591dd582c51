package commands

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/todomanage/internal/core/styles"
	"github.com/colonyops/todomanage/internal/todomanage"
	"github.com/colonyops/todomanage/pkg/iojson"
)

const timeLayout = "2006-01-02 15:04"

// argID parses the first positional argument as an item id.
func argID(c *cli.Command, usage string) (int64, error) {
	if c.NArg() < 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(c.Args().Get(0), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", c.Args().Get(0))
	}
	return id, nil
}

func localTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(loc).Format(timeLayout)
}

// writeViews prints item views as JSON lines or as a table.
func writeViews(w io.Writer, views []todomanage.View, jsonOut bool, loc *time.Location) error {
	if jsonOut {
		for _, v := range views {
			if err := iojson.WriteLine(w, v); err != nil {
				return fmt.Errorf("encode todo: %w", err)
			}
		}
		return nil
	}

	if len(views) == 0 {
		_, _ = fmt.Fprintln(w, styles.MutedStyle.Render("No items"))
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tMODIFIED\tOWNER\tTITLE")
	for _, v := range views {
		st := string(v.Status)
		if v.InKIV {
			st += " (kiv)"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", v.ID, st, localTime(v.ModifiedAt, loc), v.OwnerID, v.Title)
	}
	return tw.Flush()
}

// writeDone prints a short confirmation, or obj as JSON.
func writeDone(w io.Writer, jsonOut bool, obj any, msg string, args ...any) error {
	if jsonOut {
		return iojson.WriteLine(w, obj)
	}
	_, err := fmt.Fprintf(w, msg+"\n", args...)
	return err
}
