package logger

import (
	"context"

	"go.uber.org/zap"
)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromCtx returns the global logger annotated with the request id when the
// context carries one.
func FromCtx(ctx context.Context) *zap.Logger {
	if id := RequestIDFrom(ctx); id != "" {
		return L().With(zap.String("request_id", id))
	}
	return L()
}
