package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "both review_id and path",
			setupCtx: func() context.Context {
				ctx := context.Background()
				ctx = WithReviewID(ctx, "rev-123")
				ctx = WithPath(ctx, "a/b.txt")
				return ctx
			},
			wantKeys: []string{"review_id", "path"},
		},
		{
			name: "only review_id",
			setupCtx: func() context.Context {
				return WithReviewID(context.Background(), "rev-123")
			},
			wantKeys:  []string{"review_id"},
			wantEmpty: []string{"path"},
		},
		{
			name: "only path",
			setupCtx: func() context.Context {
				return WithPath(context.Background(), "a/b.txt")
			},
			wantKeys:  []string{"path"},
			wantEmpty: []string{"review_id"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"review_id", "path"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := tt.setupCtx()

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(ctx).Msg("test")

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := logEntry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}

			for _, key := range tt.wantEmpty {
				if _, ok := logEntry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}
