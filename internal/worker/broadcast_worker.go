package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/secops-service/internal/events"
)

// Broadcaster is the fan-out side of the real-time hub.
type Broadcaster interface {
	Broadcast(eventType string, data interface{}) int
}

// StartBroadcastWorker relays every dispatched domain event to the hub.
func StartBroadcastWorker(dispatcher events.Dispatcher, hub Broadcaster, logger *zap.Logger) {
	if dispatcher == nil || hub == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher.SubscribeAll(func(_ context.Context, event events.Event) error {
		delivered := hub.Broadcast(string(event.Type), event.Payload)
		logger.Debug("event broadcast",
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", event.EntityID),
			zap.Int("delivered", delivered))
		return nil
	})
}
