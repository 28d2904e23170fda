package observability

import (
	"context"

	"go.uber.org/zap"
)

// EventBus publishes structured diagnostic events through the logger.
// Individual provider failures and cache outcomes are recorded here
// rather than surfaced to callers.
type EventBus struct {
	logger *zap.Logger
}

// NewEventBus creates a new event bus.
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		logger: logger,
	}
}

// Publish publishes an event with the given type and data.
func (e *EventBus) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if e.logger == nil {
		return
	}

	fields := make([]zap.Field, 0, len(data)+3)
	fields = append(fields, zap.Any("event", eventType))

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, zap.String("trace_id", traceID))
	}

	for k, v := range data {
		fields = append(fields, zap.Any(k, v))
	}

	e.logger.Info(eventType, fields...)
}
