package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/todomanage/internal/core/config"
	"github.com/colonyops/todomanage/internal/core/status"
	"github.com/colonyops/todomanage/internal/core/styles"
	"github.com/colonyops/todomanage/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "todomanage config validate [options]",
				Description: "Validates the configuration file, checking the timezone, theme, default user, durations, and file paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

type validationOutput struct {
	Valid    bool                       `json:"valid"`
	Errors   []string                   `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	out := validationOutput{
		Valid:    true,
		Warnings: cmd.flags.Config.Warnings(),
	}

	if err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		out.Valid = false
		for _, line := range strings.Split(err.Error(), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out.Errors = append(out.Errors, line)
			}
		}
	}

	w := c.Root().Writer
	if cmd.format == "json" {
		if err := iojson.WriteWith(w, c.Root().ErrWriter, out); err != nil {
			return err
		}
	} else {
		for _, warn := range out.Warnings {
			_, _ = fmt.Fprintf(w, "%s %s: %s\n", styles.StatusStyle(status.Reassign).Render("warn"), warn.Category, warn.Message)
			if warn.Item != "" {
				_, _ = fmt.Fprintf(w, "  Item: %s\n", warn.Item)
			}
		}

		for _, e := range out.Errors {
			_, _ = fmt.Fprintf(w, "%s %s\n", styles.ErrorStyle.Render("error"), e)
		}

		if out.Valid {
			_, _ = fmt.Fprintln(w, styles.ValueStyle.Render("Configuration is valid"))
		} else {
			_, _ = fmt.Fprintln(w, styles.ErrorStyle.Render(fmt.Sprintf("%d error(s) found", len(out.Errors))))
		}
	}

	if !out.Valid {
		return cli.Exit("", 1)
	}
	return nil
}
