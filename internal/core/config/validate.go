package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/todomanage/internal/core/styles"
	"github.com/colonyops/todomanage/internal/core/validate"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including file accessibility and every field value. The configPath argument
// specifies the config file location to validate (empty string skips the
// config file check). Validate runs first for basic structural validation.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateIncludes(configPath),
		criterio.Run("timezone", c.Timezone, knownLocation),
		criterio.Run("theme", c.Theme, knownTheme),
		criterio.Run("user", c.User, optionalUserID),
		criterio.Run("reminders.poll_interval", c.Reminders.PollInterval, positiveDuration),
		criterio.Run("database.busy_timeout", c.Database.BusyTimeout, positiveDuration),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.User == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "User",
			Message:  "no default user configured; pass --user or set TODOMANAGE_USER",
		})
	}

	if c.Reminders.PollInterval > 0 && c.Reminders.PollInterval < time.Second {
		warnings = append(warnings, ValidationWarning{
			Category: "Reminders",
			Item:     "poll_interval",
			Message:  "poll interval below one second keeps the database busy",
		})
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		warnings = append(warnings, ValidationWarning{
			Category: "Database",
			Item:     "max_idle_conns",
			Message:  "max_idle_conns is larger than max_open_conns and will be capped",
		})
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func (c *Config) validateIncludes(configPath string) error {
	var errs criterio.FieldErrorsBuilder

	for i, file := range c.Includes {
		if configPath == "" {
			break
		}
		path := resolveInclude(filepath.Dir(configPath), file)
		if _, err := os.Stat(path); err != nil {
			errs = errs.Append(fmt.Sprintf("includes[%d]", i), fmt.Errorf("file not found: %s", file))
		}
	}

	return errs.ToError()
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return errors.New("exists but is not a directory")
	}
	return nil
}

func knownLocation(name string) error {
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("unknown timezone %q", name)
	}
	return nil
}

func knownTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

func optionalUserID(id string) error {
	if id == "" {
		return nil
	}
	return validate.UserID(id)
}

func positiveDuration(d time.Duration) error {
	if d <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}
