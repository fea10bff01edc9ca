package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/secops-service/internal/domain"
	"github.com/spec-kit/secops-service/internal/events"
)

type recordingHub struct {
	types []string
	data  []interface{}
}

func (r *recordingHub) Broadcast(eventType string, data interface{}) int {
	r.types = append(r.types, eventType)
	r.data = append(r.data, data)
	return 1
}

func TestBroadcastWorkerRelaysEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	hub := &recordingHub{}
	StartBroadcastWorker(dispatcher, hub, nil)

	incident := &domain.Incident{Title: "Broken gate"}
	incident.ID = "i-1"
	require.NoError(t, dispatcher.Publish(context.Background(),
		events.NewEntityEvent(domain.EntityIncident, events.ActionCreated, "i-1", "u-1", incident)))
	require.NoError(t, dispatcher.Publish(context.Background(),
		events.NewEntityEvent(domain.EntityClient, events.ActionDeleted, "c-1", "u-1", events.DeletedPayload{ID: "c-1"})))

	assert.Equal(t, []string{"incident_created", "client_deleted"}, hub.types)
	assert.Same(t, incident, hub.data[0])
	assert.Equal(t, events.DeletedPayload{ID: "c-1"}, hub.data[1])
}

func TestStartBroadcastWorkerNil(t *testing.T) {
	assert.NotPanics(t, func() { StartBroadcastWorker(nil, nil, nil) })
}
