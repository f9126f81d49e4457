package notification

import (
	"log/slog"
	"time"
)

// heartbeatEvent is the no-op keep-alive frame. Clients use its absence to
// detect a silently dead stream and reconnect.
var heartbeatEvent = Event{Name: "heartbeat", Data: "ping"}

// Monitor probes connection liveness. Each watched connection gets its own
// ticker goroutine that exits with the connection; a failed heartbeat takes
// the same removal path as a failed notification push.
type Monitor struct {
	interval time.Duration
	drop     func(*Connection)
}

func NewMonitor(interval time.Duration, drop func(*Connection)) *Monitor {
	return &Monitor{interval: interval, drop: drop}
}

// Watch starts the keep-alive loop for conn.
func (m *Monitor) Watch(conn *Connection) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-conn.Done():
				return
			case <-ticker.C:
				if err := conn.Send(heartbeatEvent); err != nil {
					slog.Debug("heartbeat failed, dropping connection",
						"connection_id", conn.ID(), "err", err)
					m.drop(conn)
					return
				}
			}
		}
	}()
}
