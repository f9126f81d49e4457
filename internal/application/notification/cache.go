package notification

import (
	"strings"
	"sync"

	"github.com/playroom-api/internal/domain"
)

// CacheEntry records that one notification was pushed down one connection.
// Entries survive their connection closing; that is what makes replay after
// reconnect possible. They are purged when the notification is marked read.
type CacheEntry struct {
	CacheID        string
	NotificationID string
	ConnectionID   string
	UserID         string
	Notification   domain.Notification
}

// CacheID composes the wire event id: notificationID_connectionID, where the
// connection id already carries the userID prefix.
func CacheID(notificationID, connectionID string) string {
	return notificationID + "_" + connectionID
}

// splitCacheID recovers the notification and connection ids from a cache id.
func splitCacheID(cacheID string) (notificationID, connectionID string) {
	if i := strings.Index(cacheID, "_"); i > 0 {
		return cacheID[:i], cacheID[i+1:]
	}
	return cacheID, ""
}

// ReplayCache holds delivered-but-unread notifications, indexed both by
// notification (for purge on read) and by user (for replay on reconnect).
// Process-memory only.
type ReplayCache struct {
	mu             sync.RWMutex
	byNotification map[string]map[string]*CacheEntry
	byUser         map[string]map[string]*CacheEntry
}

func NewReplayCache() *ReplayCache {
	return &ReplayCache{
		byNotification: make(map[string]map[string]*CacheEntry),
		byUser:         make(map[string]map[string]*CacheEntry),
	}
}

// Save records a delivered notification under both indices.
func (c *ReplayCache) Save(cacheID string, n domain.Notification) {
	notificationID, connectionID := splitCacheID(cacheID)
	entry := &CacheEntry{
		CacheID:        cacheID,
		NotificationID: notificationID,
		ConnectionID:   connectionID,
		UserID:         UserIDFromConnectionID(connectionID),
		Notification:   n,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byNotification[entry.NotificationID] == nil {
		c.byNotification[entry.NotificationID] = make(map[string]*CacheEntry)
	}
	c.byNotification[entry.NotificationID][cacheID] = entry
	if c.byUser[entry.UserID] == nil {
		c.byUser[entry.UserID] = make(map[string]*CacheEntry)
	}
	c.byUser[entry.UserID][cacheID] = entry
}

// FindAllForUser returns a snapshot of every cached delivery for the user,
// keyed by cache id. This answers "what has this user possibly missed".
func (c *ReplayCache) FindAllForUser(userID string) map[string]CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]CacheEntry, len(c.byUser[userID]))
	for id, e := range c.byUser[userID] {
		out[id] = *e
	}
	return out
}

// FindAllForNotification returns a snapshot of every cached delivery of one
// notification, one entry per connection it was pushed to.
func (c *ReplayCache) FindAllForNotification(notificationID string) map[string]CacheEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]CacheEntry, len(c.byNotification[notificationID]))
	for id, e := range c.byNotification[notificationID] {
		out[id] = *e
	}
	return out
}

// DeleteByID removes a single entry from both indices. Idempotent.
func (c *ReplayCache) DeleteByID(cacheID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	notificationID, connectionID := splitCacheID(cacheID)
	c.deleteLocked(notificationID, UserIDFromConnectionID(connectionID), cacheID)
}

// DeleteAllForNotification purges every entry of one notification,
// regardless of which connection it was delivered on.
func (c *ReplayCache) DeleteAllForNotification(notificationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for cacheID, e := range c.byNotification[notificationID] {
		c.deleteLocked(notificationID, e.UserID, cacheID)
	}
}

// DeleteAllForUser purges every entry belonging to one user.
func (c *ReplayCache) DeleteAllForUser(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for cacheID, e := range c.byUser[userID] {
		c.deleteLocked(e.NotificationID, userID, cacheID)
	}
}

// Len reports the total number of cached entries.
func (c *ReplayCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, entries := range c.byUser {
		n += len(entries)
	}
	return n
}

func (c *ReplayCache) deleteLocked(notificationID, userID, cacheID string) {
	if entries, ok := c.byNotification[notificationID]; ok {
		delete(entries, cacheID)
		if len(entries) == 0 {
			delete(c.byNotification, notificationID)
		}
	}
	if entries, ok := c.byUser[userID]; ok {
		delete(entries, cacheID)
		if len(entries) == 0 {
			delete(c.byUser, userID)
		}
	}
}
