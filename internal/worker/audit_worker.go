package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/storage-service/internal/events"
)

// StartAuditWorker subscribes a structured audit log to every record
// mutation event.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")
	handler := func(_ context.Context, event events.Event) error {
		audit.Info("record mutation",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("actor", event.Actor),
			zap.String("record_id", event.RecordID),
			zap.Int64("count", event.Count),
			zap.Time("timestamp", event.Timestamp),
		)
		return nil
	}
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, handler)
	}
}
