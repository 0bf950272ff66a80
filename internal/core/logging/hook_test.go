package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "review and request ids",
			setupCtx: func() context.Context {
				ctx := WithReviewID(context.Background(), "rev-1")
				return WithRequestID(ctx, "req-2")
			},
			wantKeys: []string{"review_id", "request_id"},
		},
		{
			name: "only review id",
			setupCtx: func() context.Context {
				return WithReviewID(context.Background(), "rev-1")
			},
			wantKeys:  []string{"review_id"},
			wantEmpty: []string{"request_id"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"review_id", "request_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.setupCtx()).Msg("test")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for _, k := range tt.wantKeys {
				assert.Contains(t, entry, k)
			}
			for _, k := range tt.wantEmpty {
				assert.NotContains(t, entry, k)
			}
		})
	}
}
