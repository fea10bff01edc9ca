package realtime

import "errors"

// State is the lifecycle of a client connection: CONNECTING -> OPEN -> CLOSED.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "closed"
	}
}

// ErrConnClosed is returned by Send on a connection that is no longer open.
var ErrConnClosed = errors.New("connection closed")

// Conn is what the hub needs from a client connection.
type Conn interface {
	ID() string
	Open() bool
	Send(payload []byte) error
}
