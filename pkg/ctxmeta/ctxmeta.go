// Пакет ctxmeta — метаданные запроса в context.Context для логов.
// HTTP-слой кладёт request_id, trace_id и span_id берутся из активного спана OpenTelemetry.
package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type requestIDKey struct{}

// WithRequestID — контекст с request_id; пустой id и nil-контекст возвращаются как есть.
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil || id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext — request_id, если он был положен WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id, id != ""
}

// Fields — пары ключ/значение для zap.SugaredLogger.*w: request_id, trace_id, span_id.
func Fields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	var kv []any
	if id, ok := RequestIDFromContext(ctx); ok {
		kv = append(kv, "request_id", id)
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		kv = append(kv, "trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
	}
	return kv
}
