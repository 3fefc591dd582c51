package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook copies user_id and todo_id from the event's context onto the event.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil || ctx == context.Background() {
		return
	}

	if userID := GetUserID(ctx); userID != "" {
		e.Str("user_id", userID)
	}

	if todoID, ok := GetTodoID(ctx); ok {
		e.Int64("todo_id", todoID)
	}
}
