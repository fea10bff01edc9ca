package realtime

import (
	"encoding/json"
	"time"
)

// Message types exchanged over the socket.
const (
	TypeConnected  = "connected"
	TypeSubscribe  = "subscribe"
	TypeSubscribed = "subscribed"
	TypePing       = "ping"
	TypePong       = "pong"
	TypeError      = "error"
)

// Envelope is a server push: {type, data, timestamp}.
type Envelope struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ConnectedMessage greets a new connection.
type ConnectedMessage struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	ServerID  string    `json:"serverId"`
}

// SubscribedMessage acknowledges a subscribe request.
type SubscribedMessage struct {
	Type      string    `json:"type"`
	Channel   string    `json:"channel"`
	Timestamp time.Time `json:"timestamp"`
}

// PongMessage answers a ping.
type PongMessage struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorMessage reports an unusable client message.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ClientMessage is what a client may send.
type ClientMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel,omitempty"`
}

// Reply computes the response to one inbound frame. Subscriptions are
// acknowledged only; every connection keeps receiving every broadcast.
func Reply(raw []byte, now time.Time) interface{} {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return ErrorMessage{Type: TypeError, Message: "invalid message format"}
	}
	switch msg.Type {
	case TypeSubscribe:
		return SubscribedMessage{Type: TypeSubscribed, Channel: msg.Channel, Timestamp: now}
	case TypePing:
		return PongMessage{Type: TypePong, Timestamp: now}
	default:
		return ErrorMessage{Type: TypeError, Message: "unknown message type"}
	}
}
