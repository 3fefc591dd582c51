package commands

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/colonyops/todomanage/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	User       string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// Requester returns the user commands act as: the --user flag, falling back
// to the configured user.
func (f *Flags) Requester() (string, error) {
	if f.User != "" {
		return f.User, nil
	}
	if f.Config != nil && f.Config.User != "" {
		return f.Config.User, nil
	}
	return "", errors.New("no user: pass --user, set TODOMANAGE_USER or add user to the config file")
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "todomanage", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "todomanage")
}
