// Package config handles configuration loading and validation for revural.
package config

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied to zero fields after loading.
const (
	DefaultBaseURL             = "http://localhost:8000"
	DefaultAPITimeout          = 30 * time.Second
	DefaultPollInterval        = 1500 * time.Millisecond
	DefaultStatusRetryAttempts = 3
	DefaultStatusRetryDelay    = 250 * time.Millisecond
	DefaultDialogTimeout       = 60 * time.Second
	DefaultTheme               = "tokyo-night"
	DefaultPreviewLimit        = 160
)

// Config holds the application configuration.
type Config struct {
	API     APIConfig         `yaml:"api"`
	Polling PollingConfig     `yaml:"polling"`
	Actions ActionsConfig     `yaml:"actions"`
	TUI     TUIConfig         `yaml:"tui"`
	Presets map[string]Preset `yaml:"presets"`
}

// APIConfig configures the review backend connection.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PollingConfig configures the review status poller.
type PollingConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// ActionsConfig configures issue actions.
type ActionsConfig struct {
	StatusRetryAttempts int           `yaml:"status_retry_attempts"`
	StatusRetryDelay    time.Duration `yaml:"status_retry_delay"`
	DialogTimeout       time.Duration `yaml:"dialog_timeout"`
}

// TUIConfig configures the terminal UI.
type TUIConfig struct {
	Theme        string `yaml:"theme"`
	PreviewLimit int    `yaml:"preview_limit"` // code points of original text shown in the list
}

// Preset is a named team of reviewer roles.
type Preset struct {
	Name  string   `yaml:"name"`
	Roles []string `yaml:"roles"`
}

// KnownRoles lists the reviewer roles the backend understands.
var KnownRoles = []string{
	"engineer",
	"ux_designer",
	"qa_tester",
	"pm",
	"data_scientist",
	"security_specialist",
	"ux_writer",
	"marketing_strategist",
	"legal_advisor",
}

// defaultPresets are always available; user presets with the same key
// replace them.
var defaultPresets = map[string]Preset{
	"prd_document": {
		Name:  "PRD (product requirements)",
		Roles: []string{"pm", "engineer", "ux_designer", "data_scientist"},
	},
	"technical_spec": {
		Name:  "Technical specification / design doc",
		Roles: []string{"engineer", "security_specialist", "qa_tester", "data_scientist"},
	},
	"ui_ux_spec": {
		Name:  "UI/UX specification / design guide",
		Roles: []string{"ux_designer", "ux_writer", "pm", "marketing_strategist"},
	},
	"business_plan": {
		Name:  "Business plan / requirements",
		Roles: []string{"pm", "marketing_strategist", "data_scientist", "legal_advisor"},
	},
	"compliance_doc": {
		Name:  "Legal / compliance document",
		Roles: []string{"legal_advisor", "security_specialist", "pm", "data_scientist"},
	},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultAPITimeout,
		},
		Polling: PollingConfig{
			Interval: DefaultPollInterval,
		},
		Actions: ActionsConfig{
			StatusRetryAttempts: DefaultStatusRetryAttempts,
			StatusRetryDelay:    DefaultStatusRetryDelay,
			DialogTimeout:       DefaultDialogTimeout,
		},
		TUI: TUIConfig{
			Theme:        DefaultTheme,
			PreviewLimit: DefaultPreviewLimit,
		},
		Presets: maps.Clone(defaultPresets),
	}
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Presets = nil

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	// Merge user presets into defaults (user config overrides defaults)
	cfg.Presets = mergePresets(defaultPresets, cfg.Presets)

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.Polling.Interval == 0 {
		c.Polling.Interval = defaults.Polling.Interval
	}
	if c.Actions.StatusRetryAttempts == 0 {
		c.Actions.StatusRetryAttempts = defaults.Actions.StatusRetryAttempts
	}
	if c.Actions.StatusRetryDelay == 0 {
		c.Actions.StatusRetryDelay = defaults.Actions.StatusRetryDelay
	}
	if c.Actions.DialogTimeout == 0 {
		c.Actions.DialogTimeout = defaults.Actions.DialogTimeout
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.PreviewLimit == 0 {
		c.TUI.PreviewLimit = defaults.TUI.PreviewLimit
	}
}

// mergePresets merges user presets into defaults.
// User presets override defaults for the same key.
func mergePresets(defaults, user map[string]Preset) map[string]Preset {
	result := make(map[string]Preset, len(defaults)+len(user))
	maps.Copy(result, defaults)
	maps.Copy(result, user)
	return result
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url cannot be empty")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout cannot be negative")
	}
	if c.Polling.Interval < 0 {
		return fmt.Errorf("polling.interval cannot be negative")
	}
	if c.Actions.StatusRetryAttempts < 1 {
		return fmt.Errorf("actions.status_retry_attempts must be at least 1")
	}
	if c.TUI.PreviewLimit < 0 {
		return fmt.Errorf("tui.preview_limit cannot be negative")
	}

	for key, p := range c.Presets {
		if len(p.Roles) == 0 {
			return fmt.Errorf("preset %q must have at least one role", key)
		}
	}

	return nil
}

// PresetKeys returns preset keys sorted alphabetically.
func (c *Config) PresetKeys() []string {
	return slices.Sorted(maps.Keys(c.Presets))
}

// Preset looks up a preset by key.
func (c *Config) Preset(key string) (Preset, bool) {
	p, ok := c.Presets[key]
	return p, ok
}
