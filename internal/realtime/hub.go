package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/secops-service/internal/observability"
)

// Hub fans broadcast events out to every registered connection.
// Delivery is best effort: no queueing, no replay, no ordering across connections.
type Hub struct {
	mu      sync.RWMutex
	conns   map[string]Conn
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewHub builds an empty hub. metrics may be nil.
func NewHub(logger *zap.Logger, metrics *observability.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		conns:   make(map[string]Conn),
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Register adds a connection. Registering the same id twice replaces the earlier entry.
func (h *Hub) Register(conn Conn) {
	h.mu.Lock()
	h.conns[conn.ID()] = conn
	n := len(h.conns)
	h.mu.Unlock()
	h.metrics.SetConnections(n)
	h.logger.Debug("realtime connection registered", zap.String("conn_id", conn.ID()), zap.Int("connections", n))
}

// Unregister removes a connection; unknown connections are ignored.
func (h *Hub) Unregister(conn Conn) {
	h.remove(conn.ID())
}

func (h *Hub) remove(id string) bool {
	h.mu.Lock()
	_, ok := h.conns[id]
	delete(h.conns, id)
	n := len(h.conns)
	h.mu.Unlock()
	if ok {
		h.metrics.SetConnections(n)
	}
	return ok
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast serializes {type, data, timestamp} once and sends it to a snapshot
// of the connection set. Connections that are not open or fail to accept the
// frame are evicted. It returns the number of successful deliveries.
func (h *Hub) Broadcast(eventType string, data interface{}) int {
	payload, err := json.Marshal(Envelope{Type: eventType, Data: data, Timestamp: h.now().UTC()})
	if err != nil {
		h.logger.Error("broadcast encode failed", zap.String("type", eventType), zap.Error(err))
		return 0
	}
	h.metrics.RecordBroadcast(eventType)

	h.mu.RLock()
	snapshot := make([]Conn, 0, len(h.conns))
	for _, conn := range h.conns {
		snapshot = append(snapshot, conn)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, conn := range snapshot {
		if !conn.Open() {
			h.evict(conn, nil)
			continue
		}
		if err := conn.Send(payload); err != nil {
			h.evict(conn, err)
			continue
		}
		delivered++
	}
	return delivered
}

func (h *Hub) evict(conn Conn, cause error) {
	if !h.remove(conn.ID()) {
		return
	}
	h.metrics.RecordEviction()
	fields := []zap.Field{zap.String("conn_id", conn.ID())}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	h.logger.Debug("realtime connection evicted", fields...)
}

// CloseAll closes every connection that supports it and empties the hub.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[string]Conn)
	h.mu.Unlock()
	h.metrics.SetConnections(0)

	for _, conn := range conns {
		if closer, ok := conn.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}
}
