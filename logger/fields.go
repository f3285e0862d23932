package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for structured logging.
// Use these constants instead of raw strings.
const (
	// Identity
	FieldClientID  = "client_id"
	FieldSessionID = "session_id"
	FieldRequestID = "request_id"

	// Operations
	FieldOperation = "operation"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldQuery     = "query"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError     = "error"
	FieldErrorType = "error_type"

	// Counts
	FieldCount = "count"
	FieldNodes = "nodes"
	FieldLinks = "links"
	FieldTags  = "tags"

	// Simulation
	FieldGeneration = "generation"
	FieldAlpha      = "alpha"
	FieldTicks      = "ticks"
	FieldNodeID     = "node_id"
	FieldFocus      = "focus"
	FieldMode       = "mode"

	// Files and network
	FieldFile    = "file"
	FieldAddress = "address"
	FieldPort    = "port"

	// Glyph marker (see package sym)
	FieldSymbol = "symbol"
)

type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	sessionIDKey contextKey = "logger_session_id"
)

// WithRequestID tags ctx with an HTTP request id
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithSessionID tags ctx with a websocket session id
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// FieldsFromContext returns the ids stored on ctx as Infow key-value pairs
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		fields = append(fields, FieldRequestID, v)
	}
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		fields = append(fields, FieldSessionID, v)
	}
	return fields
}

// FromContext returns base carrying the ids stored on ctx
func FromContext(base *zap.SugaredLogger, ctx context.Context) *zap.SugaredLogger {
	if base == nil {
		base = current()
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
