package logging

import "context"

type contextKey string

const (
	userIDKey contextKey = "user_id"
	todoIDKey contextKey = "todo_id"
)

// WithUserID adds the requesting user to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithTodoID adds the todo item being operated on to the context.
func WithTodoID(ctx context.Context, todoID int64) context.Context {
	return context.WithValue(ctx, todoIDKey, todoID)
}

// GetUserID retrieves the user ID from the context.
// Returns empty string if not present.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// GetTodoID retrieves the todo ID from the context.
func GetTodoID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(todoIDKey).(int64)
	return id, ok
}
