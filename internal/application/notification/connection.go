package notification

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrConnectionClosed is the delivery-failure signal: the push channel is
// closed, or so far behind that it may as well be.
var ErrConnectionClosed = errors.New("connection closed")

// Event is one frame of the push stream: the three named fields of the
// text/event-stream protocol.
type Event struct {
	ID   string
	Name string
	Data interface{}
}

// Connection is a single live push channel to one device of one user.
// Events are buffered; a full buffer on send counts as a broken channel.
type Connection struct {
	id     string
	userID string

	events chan Event
	done   chan struct{}
	once   sync.Once
}

// NewConnection mints a connection for userID. The connection id is
// userID_millis_random so that one user can hold many connections and the
// owning user is recoverable from the id prefix.
func NewConnection(userID string, bufferSize int) *Connection {
	connID := fmt.Sprintf("%s_%d_%s", userID, time.Now().UnixMilli(), uuid.NewString())
	return &Connection{
		id:     connID,
		userID: userID,
		events: make(chan Event, bufferSize),
		done:   make(chan struct{}),
	}
}

func (c *Connection) ID() string     { return c.id }
func (c *Connection) UserID() string { return c.userID }

// Events is the stream the transport layer drains into the wire.
func (c *Connection) Events() <-chan Event { return c.events }

// Done is closed exactly once, on timeout, error, or explicit close.
func (c *Connection) Done() <-chan struct{} { return c.done }

// Send queues an event without blocking. It fails when the connection is
// closed or its buffer is full; the caller treats both as a dead connection.
func (c *Connection) Send(ev Event) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}
	select {
	case c.events <- ev:
		return nil
	case <-c.done:
		return ErrConnectionClosed
	default:
		return fmt.Errorf("event buffer full: %w", ErrConnectionClosed)
	}
}

// Close terminates the connection. Idempotent; all terminal states
// (completed, timed out, errored) converge here.
func (c *Connection) Close() {
	c.once.Do(func() { close(c.done) })
}

// UserIDFromConnectionID recovers the owning user from a connection id prefix.
func UserIDFromConnectionID(connectionID string) string {
	if i := strings.Index(connectionID, "_"); i > 0 {
		return connectionID[:i]
	}
	return ""
}
