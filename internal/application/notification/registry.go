package notification

import "sync"

// Registry tracks every live connection, indexed per user so fan-out never
// scans unrelated users. It holds no persistent state; its contents die with
// the process.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]map[string]*Connection
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string]map[string]*Connection)}
}

// Register stores the connection under its owning user. No uniqueness check
// beyond the connection id itself; multiple devices of one user all coexist.
func (r *Registry) Register(conn *Connection) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	conns, ok := r.byUser[conn.UserID()]
	if !ok {
		conns = make(map[string]*Connection)
		r.byUser[conn.UserID()] = conns
	}
	conns[conn.ID()] = conn
	return conn
}

// FindAllForUser returns a snapshot of the user's live connections. Callers
// iterate the snapshot, so a connection removed mid-fan-out simply misses
// that event rather than erroring.
func (r *Registry) FindAllForUser(userID string) map[string]*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(map[string]*Connection, len(r.byUser[userID]))
	for id, conn := range r.byUser[userID] {
		snapshot[id] = conn
	}
	return snapshot
}

// Remove drops one connection and returns it, or nil if it was already
// gone. Idempotent.
func (r *Registry) Remove(connectionID string) *Connection {
	userID := UserIDFromConnectionID(connectionID)
	r.mu.Lock()
	defer r.mu.Unlock()
	conns, ok := r.byUser[userID]
	if !ok {
		return nil
	}
	conn := conns[connectionID]
	delete(conns, connectionID)
	if len(conns) == 0 {
		delete(r.byUser, userID)
	}
	return conn
}

// RemoveAllForUser drops every connection of a user and returns them, so the
// caller can close the underlying channels (account-level disconnect).
func (r *Registry) RemoveAllForUser(userID string) []*Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	conns := r.byUser[userID]
	delete(r.byUser, userID)
	removed := make([]*Connection, 0, len(conns))
	for _, conn := range conns {
		removed = append(removed, conn)
	}
	return removed
}

// All returns a snapshot of every live connection across all users.
func (r *Registry) All() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []*Connection
	for _, conns := range r.byUser {
		for _, conn := range conns {
			all = append(all, conn)
		}
	}
	return all
}

// Len reports the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, conns := range r.byUser {
		n += len(conns)
	}
	return n
}
