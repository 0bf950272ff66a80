package logutils

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerebom/revural/internal/core/logging"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "revural.log")

	logger, closer, err := New("info", file)
	require.NoError(t, err)

	ctx := logging.WithReviewID(context.Background(), "rev-7")
	logger.Debug().Msg("hidden")
	logger.Info().Ctx(ctx).Msg("visible")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "rev-7", entry["review_id"])
}

func TestNew_AppendsAcrossRuns(t *testing.T) {
	file := filepath.Join(t.TempDir(), "revural.log")

	for range 2 {
		logger, closer, err := New("info", file)
		require.NoError(t, err)
		logger.Info().Msg("run")
		closer()
	}

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("loud", "")
	assert.Error(t, err)
}
