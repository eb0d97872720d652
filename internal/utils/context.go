package utils

import "context"

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "role"
	OperatorKey contextKey = "operator"
)

func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok
}

func WithOperator(ctx context.Context) context.Context {
	return context.WithValue(ctx, OperatorKey, true)
}

func IsOperator(ctx context.Context) bool {
	v, ok := ctx.Value(OperatorKey).(bool)
	return ok && v
}
