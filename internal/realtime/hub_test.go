package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/spec-kit/secops-service/internal/observability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeConn struct {
	id      string
	mu      sync.Mutex
	open    bool
	failErr error
	frames  [][]byte
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id, open: true}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Open() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *fakeConn) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.frames = append(f.frames, append([]byte(nil), payload...))
	return nil
}

func (f *fakeConn) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.frames...)
}

func TestBroadcastDeliversToAllOpen(t *testing.T) {
	hub := NewHub(nil, nil)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	hub.now = func() time.Time { return fixed }

	a, b := newFakeConn("a"), newFakeConn("b")
	hub.Register(a)
	hub.Register(b)

	n := hub.Broadcast("incident_created", map[string]string{"id": "i-1"})
	assert.Equal(t, 2, n)

	for _, c := range []*fakeConn{a, b} {
		frames := c.received()
		require.Len(t, frames, 1)
		var env struct {
			Type      string            `json:"type"`
			Data      map[string]string `json:"data"`
			Timestamp time.Time         `json:"timestamp"`
		}
		require.NoError(t, json.Unmarshal(frames[0], &env))
		assert.Equal(t, "incident_created", env.Type)
		assert.Equal(t, "i-1", env.Data["id"])
		assert.True(t, fixed.Equal(env.Timestamp))
	}
}

func TestBroadcastEvictsClosedAndFailing(t *testing.T) {
	metrics := observability.NewMetrics("hubtest")
	hub := NewHub(nil, metrics)

	healthy := newFakeConn("healthy")
	closed := newFakeConn("closed")
	closed.open = false
	failing := newFakeConn("failing")
	failing.failErr = errors.New("broken pipe")

	hub.Register(healthy)
	hub.Register(closed)
	hub.Register(failing)
	require.Equal(t, 3, hub.Count())

	n := hub.Broadcast("client_updated", nil)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, hub.Count())
	assert.Len(t, healthy.received(), 1)
	assert.Empty(t, closed.received())

	// evicted connections get nothing further
	n = hub.Broadcast("client_updated", nil)
	assert.Equal(t, 1, n)
	assert.Len(t, healthy.received(), 2)

	assert.Equal(t, float64(2), gathered(t, metrics, "hubtest_realtime_evictions_total"))
	assert.Equal(t, float64(1), gathered(t, metrics, "hubtest_realtime_connections"))
}

func gathered(t *testing.T, m *observability.Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		total := 0.0
		for _, metric := range family.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if g := metric.GetGauge(); g != nil {
				total += g.GetValue()
			}
		}
		return total
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func TestBroadcastWithNoConnections(t *testing.T) {
	hub := NewHub(nil, nil)
	assert.Equal(t, 0, hub.Broadcast("client_created", nil))
}

func TestUnregister(t *testing.T) {
	hub := NewHub(nil, nil)
	a := newFakeConn("a")
	hub.Register(a)
	hub.Unregister(a)
	hub.Unregister(a)
	assert.Equal(t, 0, hub.Count())
	assert.Equal(t, 0, hub.Broadcast("x", nil))
	assert.Empty(t, a.received())
}

func TestConcurrentRegisterAndBroadcast(t *testing.T) {
	hub := NewHub(nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c := newFakeConn(fmt.Sprintf("c-%d", i))
			hub.Register(c)
			if i%2 == 0 {
				hub.Unregister(c)
			}
		}(i)
		go func() {
			defer wg.Done()
			hub.Broadcast("tick", nil)
		}()
	}
	wg.Wait()
	assert.Equal(t, 25, hub.Count())
}

type closingConn struct {
	*fakeConn
	closed bool
}

func (c *closingConn) Close() error {
	c.closed = true
	return nil
}

func TestCloseAll(t *testing.T) {
	hub := NewHub(nil, nil)
	c := &closingConn{fakeConn: newFakeConn("c")}
	hub.Register(c)
	hub.Register(newFakeConn("plain"))
	hub.CloseAll()
	assert.True(t, c.closed)
	assert.Equal(t, 0, hub.Count())
}

func TestReply(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, SubscribedMessage{Type: TypeSubscribed, Channel: "incidents", Timestamp: now},
		Reply([]byte(`{"type":"subscribe","channel":"incidents"}`), now))
	assert.Equal(t, PongMessage{Type: TypePong, Timestamp: now}, Reply([]byte(`{"type":"ping"}`), now))
	assert.Equal(t, ErrorMessage{Type: TypeError, Message: "invalid message format"}, Reply([]byte(`{nope`), now))
	assert.Equal(t, ErrorMessage{Type: TypeError, Message: "unknown message type"}, Reply([]byte(`{"type":"dance"}`), now))
}
