package realtime

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/secops-service/internal/observability"
)

// frameWriter is the write side of a websocket connection.
type frameWriter interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// wsConn adapts a fiber websocket to Conn. Writes are serialized and bounded
// by writeTimeout so one stalled client cannot hold up a broadcast for long.
// mu guards every use of conn, including Close, so no write reaches the
// socket after it has been handed back to the upgrader.
type wsConn struct {
	id           string
	conn         frameWriter
	writeTimeout time.Duration

	mu    sync.Mutex
	state atomic.Int32
}

func newWSConn(conn frameWriter, writeTimeout time.Duration) *wsConn {
	w := &wsConn{id: uuid.NewString(), conn: conn, writeTimeout: writeTimeout}
	w.state.Store(int32(StateConnecting))
	return w
}

func (w *wsConn) ID() string { return w.id }

func (w *wsConn) Open() bool { return State(w.state.Load()) == StateOpen }

func (w *wsConn) Send(payload []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.Open() {
		return ErrConnClosed
	}
	if w.writeTimeout > 0 {
		_ = w.conn.SetWriteDeadline(time.Now().Add(w.writeTimeout))
	}
	if err := w.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		_ = w.closeLocked()
		return err
	}
	return nil
}

func (w *wsConn) sendJSON(v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.Send(payload)
}

// Close is idempotent. It waits for an in-flight write to finish.
func (w *wsConn) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *wsConn) closeLocked() error {
	if State(w.state.Swap(int32(StateClosed))) == StateClosed {
		return nil
	}
	return w.conn.Close()
}

// HandlerOptions configures the /ws endpoint.
type HandlerOptions struct {
	ServerID     string
	WriteTimeout time.Duration
	Logger       *zap.Logger
	Panics       *observability.PanicPolicy
}

// RequireUpgrade rejects plain HTTP requests to the socket path with 426.
func RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler upgrades the request and serves one client until it disconnects.
func Handler(hub *Hub, opts HandlerOptions) fiber.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return websocket.New(func(c *websocket.Conn) {
		conn := newWSConn(c, opts.WriteTimeout)
		defer func() {
			opts.Panics.Handle("realtime", recover())
		}()
		defer func() {
			hub.Unregister(conn)
			_ = conn.Close()
			logger.Debug("realtime client disconnected", zap.String("conn_id", conn.id))
		}()

		conn.state.Store(int32(StateOpen))
		// The greeting goes out before the hub can reach this client.
		if err := conn.sendJSON(ConnectedMessage{
			Type:      TypeConnected,
			Message:   "connected to real-time updates",
			Timestamp: time.Now().UTC(),
			ServerID:  opts.ServerID,
		}); err != nil {
			return
		}
		hub.Register(conn)
		logger.Debug("realtime client connected", zap.String("conn_id", conn.id))

		for {
			_, frame, err := c.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.sendJSON(Reply(frame, time.Now().UTC())); err != nil {
				return
			}
		}
	})
}
