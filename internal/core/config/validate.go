package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/zerebom/revural/internal/core/styles"
)

// minPollInterval keeps a misconfigured poller from hammering the backend.
const minPollInterval = 100 * time.Millisecond

// ValidateDeep performs comprehensive validation of the configuration
// including URL syntax, theme names, preset roles and file accessibility.
// The configPath argument specifies the config file location to validate
// (empty string skips config file check). This calls Validate() first for
// basic structural validation.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("api.base_url", c.API.BaseURL, validBaseURL),
		criterio.Run("polling.interval", c.Polling.Interval, validPollInterval),
		criterio.Run("tui.theme", c.TUI.Theme, validTheme),
		c.validatePresets(),
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

func validBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

func validPollInterval(d time.Duration) error {
	if d < minPollInterval {
		return fmt.Errorf("must be at least %s", minPollInterval)
	}
	return nil
}

func validTheme(name string) error {
	if !slices.Contains(styles.ThemeNames(), name) {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

// validatePresets checks that every preset names known, unique roles.
func (c *Config) validatePresets() error {
	var errs criterio.FieldErrorsBuilder
	for _, key := range c.PresetKeys() {
		p := c.Presets[key]
		seen := make(map[string]bool, len(p.Roles))
		for i, role := range p.Roles {
			field := fmt.Sprintf("presets[%q].roles[%d]", key, i)
			if !slices.Contains(KnownRoles, role) {
				errs = errs.Append(field, fmt.Errorf("unknown role %q", role))
				continue
			}
			if seen[role] {
				errs = errs.Append(field, fmt.Errorf("duplicate role %q", role))
			}
			seen[role] = true
		}
	}
	return errs.ToError()
}
