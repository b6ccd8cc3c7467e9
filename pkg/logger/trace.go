package logger

import "context"

type traceKey struct{}

// WithTraceID stores the request trace id; log lines pass it as "trace_id".
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceID returns "" for contexts that never went through the HTTP middleware.
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(traceKey{}).(string)
	return s
}
