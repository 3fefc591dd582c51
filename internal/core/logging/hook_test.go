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
			name: "both user_id and todo_id",
			setupCtx: func() context.Context {
				ctx := context.Background()
				ctx = WithUserID(ctx, "alice")
				ctx = WithTodoID(ctx, 42)
				return ctx
			},
			wantKeys: []string{"user_id", "todo_id"},
		},
		{
			name: "only user_id",
			setupCtx: func() context.Context {
				return WithUserID(context.Background(), "alice")
			},
			wantKeys:  []string{"user_id"},
			wantEmpty: []string{"todo_id"},
		},
		{
			name: "only todo_id",
			setupCtx: func() context.Context {
				return WithTodoID(context.Background(), 7)
			},
			wantKeys:  []string{"todo_id"},
			wantEmpty: []string{"user_id"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"user_id", "todo_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := tt.setupCtx()

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(ctx).Msg("test")

			var logEntry map[string]any
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

func TestContextValues(t *testing.T) {
	ctx := context.Background()

	if got := GetUserID(ctx); got != "" {
		t.Errorf("GetUserID() = %q, want empty string", got)
	}
	if _, ok := GetTodoID(ctx); ok {
		t.Error("GetTodoID() reported a value on an empty context")
	}

	ctx = WithTodoID(WithUserID(ctx, "bob"), 9)
	if got := GetUserID(ctx); got != "bob" {
		t.Errorf("GetUserID() = %q, want %q", got, "bob")
	}
	if got, ok := GetTodoID(ctx); !ok || got != 9 {
		t.Errorf("GetTodoID() = %d, %v, want 9, true", got, ok)
	}
}
