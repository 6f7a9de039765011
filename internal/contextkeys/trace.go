package contextkeys

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type traceIDKeyType struct{}

var traceIDKey = traceIDKeyType{}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext - пустая строка, если trace_id не задан
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey).(string)
	return traceID
}

// EnsureTraceID кладет в контекст переданный trace_id или, если он пустой, новый uuid
func EnsureTraceID(ctx context.Context, traceID string) (context.Context, string) {
	traceID = strings.TrimSpace(traceID)
	if traceID == "" {
		traceID = uuid.NewString()
	}
	return ContextWithTraceID(ctx, traceID), traceID
}
