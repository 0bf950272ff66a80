package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/zerebom/revural/internal/client"
	"github.com/zerebom/revural/internal/core/config"
	"github.com/zerebom/revural/internal/core/logging"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	APIURL     string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// BaseURL returns --api-url when set, otherwise the configured base URL.
func (f *Flags) BaseURL() string {
	if f.APIURL != "" {
		return f.APIURL
	}
	return f.Config.API.BaseURL
}

// Client builds a backend client from the loaded configuration.
func (f *Flags) Client() (*client.Client, error) {
	c, err := client.New(f.BaseURL(),
		client.WithTimeout(f.Config.API.Timeout),
		client.WithLogger(logging.Component("client")),
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return c, nil
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "revural", "config.yaml")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/revural/revural.log
// On Linux: $XDG_STATE_HOME/revural/revural.log (defaults to ~/.local/state/revural/revural.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "revural", "revural.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "revural", "revural.log")
	}

	return filepath.Join(home, ".local", "state", "revural", "revural.log")
}
