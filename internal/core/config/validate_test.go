package config

import (
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
		wantMsg   string
	}{
		{
			name:      "bad scheme",
			mutate:    func(c *Config) { c.API.BaseURL = "ftp://reviews.example.com" },
			wantField: "api.base_url",
			wantMsg:   "scheme",
		},
		{
			name:      "missing host",
			mutate:    func(c *Config) { c.API.BaseURL = "http://" },
			wantField: "api.base_url",
			wantMsg:   "host",
		},
		{
			name:      "interval too small",
			mutate:    func(c *Config) { c.Polling.Interval = time.Millisecond },
			wantField: "polling.interval",
			wantMsg:   "at least",
		},
		{
			name:      "unknown theme",
			mutate:    func(c *Config) { c.TUI.Theme = "neon" },
			wantField: "tui.theme",
			wantMsg:   "unknown theme",
		},
		{
			name:      "unknown role",
			mutate:    func(c *Config) { c.Presets["custom"] = Preset{Name: "Custom", Roles: []string{"astrologer"}} },
			wantField: `presets["custom"].roles[0]`,
			wantMsg:   "unknown role",
		},
		{
			name:      "duplicate role",
			mutate:    func(c *Config) { c.Presets["custom"] = Preset{Name: "Custom", Roles: []string{"pm", "pm"}} },
			wantField: `presets["custom"].roles[1]`,
			wantMsg:   "duplicate role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.ValidateDeep("")

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.wantField, fieldErrs[0].Field)
			assert.Contains(t, fieldErrs[0].Err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ValidateDeep(t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "config_file", fieldErrs[0].Field)
}

func TestValidateDeep_StructuralErrorFirst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Actions.StatusRetryAttempts = 0
	cfg.TUI.Theme = "neon"

	err := cfg.ValidateDeep("")
	require.Error(t, err)

	var fieldErrs criterio.FieldErrors
	assert.NotErrorAs(t, err, &fieldErrs)
	assert.Contains(t, err.Error(), "status_retry_attempts")
}
