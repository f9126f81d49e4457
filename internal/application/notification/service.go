package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/playroom-api/internal/domain"
	"github.com/playroom-api/internal/infrastructure/sns"
	"github.com/playroom-api/internal/pkg/id"
)

// Store is the durable side of the subsystem: the notifications table.
type Store interface {
	Put(ctx context.Context, n *domain.Notification) error
	ListByReceiver(ctx context.Context, receiverID string) ([]domain.Notification, error)
	ListUnread(ctx context.Context, receiverID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, notificationID string) error
}

// Service orchestrates persistence, fan-out, replay, and read-state
// transitions. It owns the connection registry and the replay cache.
type Service interface {
	SendNotification(ctx context.Context, receiverID string, typ domain.NotificationType, content string) error
	Subscribe(userID, lastEventID string) *Connection
	Unsubscribe(connectionID string)
	DisconnectUser(userID string)
	MarkAllRead(ctx context.Context, userID string) error
	GetNotifications(ctx context.Context, userID string) ([]domain.Notification, error)
	Close()
}

// Options tunes a Service; zero values fall back to the listed defaults.
type Options struct {
	ConnectionLifetime time.Duration // default 10m
	HeartbeatInterval  time.Duration // default 45s
	EventBufferSize    int           // default 32
	OfflinePublisher   sns.Publisher // optional
}

type service struct {
	store    Store
	registry *Registry
	cache    *ReplayCache
	monitor  *Monitor

	lifetime   time.Duration
	bufferSize int
	offline    sns.Publisher
}

func NewService(store Store, opts Options) Service {
	if opts.ConnectionLifetime <= 0 {
		opts.ConnectionLifetime = 10 * time.Minute
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = 45 * time.Second
	}
	if opts.EventBufferSize <= 0 {
		opts.EventBufferSize = 32
	}
	s := &service{
		store:      store,
		registry:   NewRegistry(),
		cache:      NewReplayCache(),
		lifetime:   opts.ConnectionLifetime,
		bufferSize: opts.EventBufferSize,
		offline:    opts.OfflinePublisher,
	}
	s.monitor = NewMonitor(opts.HeartbeatInterval, s.drop)
	return s
}

// SendNotification persists the notification, then pushes it to every live
// connection of the receiver. Zero live connections is still success: the
// record is durable and will surface via GetNotifications. A failed push
// drops the connection and is never retried on the wire, for the same reason.
func (s *service) SendNotification(ctx context.Context, receiverID string, typ domain.NotificationType, content string) error {
	n := &domain.Notification{
		NotificationID: id.New(),
		ReceiverID:     receiverID,
		Type:           typ,
		Content:        content,
		IsRead:         false,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.Put(ctx, n); err != nil {
		return err
	}

	conns := s.registry.FindAllForUser(receiverID)
	if len(conns) == 0 {
		s.publishOffline(ctx, n)
		return nil
	}

	sent, failed := 0, 0
	for connID, conn := range conns {
		cacheID := CacheID(n.NotificationID, connID)
		ev := Event{ID: cacheID, Name: typ.EventName(), Data: *n}
		if err := conn.Send(ev); err != nil {
			slog.Warn("push failed, dropping connection", "connection_id", connID, "err", err)
			s.drop(conn)
			failed++
			continue
		}
		s.cache.Save(cacheID, *n)
		sent++
	}
	slog.Info("notification fan-out done",
		"notification_id", n.NotificationID, "receiver_id", receiverID, "sent", sent, "failed", failed)
	return nil
}

// Subscribe opens a new push connection for userID with a hard lifetime,
// replays possibly missed events when lastEventID is given, and emits the
// initial connected frame. The caller drains conn.Events until conn.Done.
func (s *service) Subscribe(userID, lastEventID string) *Connection {
	conn := NewConnection(userID, s.bufferSize)
	s.registry.Register(conn)
	slog.Info("subscribed", "user_id", userID, "connection_id", conn.ID())

	// Hard timeout, not idle-based. The client must resubscribe afterwards.
	time.AfterFunc(s.lifetime, func() { s.Unsubscribe(conn.ID()) })

	s.monitor.Watch(conn)

	if lastEventID != "" {
		s.replay(userID, lastEventID, conn)
	}

	if err := conn.Send(Event{Name: "connected", Data: "connection established"}); err != nil {
		slog.Warn("initial connected frame failed", "connection_id", conn.ID(), "err", err)
	}
	return conn
}

// replay resends cached entries newer than lastEventID to this connection
// only, never to the user's other live connections. Notification ids are
// ULIDs, so the string comparison orders by creation time. A lastEventID
// that is not a ULID means no replay was requested; the cache ids put on the
// wire embed the notification id as their prefix, so clients may echo either
// back and the comparison below still sees the notification id first.
func (s *service) replay(userID, lastEventID string, conn *Connection) {
	lastNotificationID, _ := splitCacheID(lastEventID)
	if !id.Valid(lastNotificationID) {
		slog.Warn("ignoring malformed Last-Event-ID", "user_id", userID, "last_event_id", lastEventID)
		return
	}

	resent := 0
	for _, entry := range s.cache.FindAllForUser(userID) {
		if lastNotificationID < entry.NotificationID {
			ev := Event{ID: entry.CacheID, Name: entry.Notification.Type.EventName(), Data: entry.Notification}
			if err := conn.Send(ev); err != nil {
				slog.Warn("replay send failed", "cache_id", entry.CacheID, "err", err)
				continue
			}
			resent++
		}
	}
	slog.Info("replay done", "user_id", userID, "resent", resent)
}

// Unsubscribe is the single terminal path for a connection: completion,
// timeout, and send error all land here. Idempotent. Cache entries stay put
// so a future reconnect can replay them.
func (s *service) Unsubscribe(connectionID string) {
	if conn := s.registry.Remove(connectionID); conn != nil {
		conn.Close()
	}
}

// DisconnectUser force-closes every connection of a user (account-level
// disconnect, e.g. logout everywhere).
func (s *service) DisconnectUser(userID string) {
	for _, conn := range s.registry.RemoveAllForUser(userID) {
		conn.Close()
	}
}

// MarkAllRead flips every unread notification of the user to read and purges
// their replay-cache entries. Idempotent: a second call finds nothing unread.
func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	unread, err := s.store.ListUnread(ctx, userID)
	if err != nil {
		return err
	}
	for i := range unread {
		if err := s.store.MarkRead(ctx, unread[i].NotificationID); err != nil {
			return err
		}
		s.cache.DeleteAllForNotification(unread[i].NotificationID)
	}
	slog.Info("marked all read", "user_id", userID, "count", len(unread))
	return nil
}

// GetNotifications returns the user's stored notifications newest-first.
// This is both the initial page load and the compensating path when push
// delivery was missed entirely.
func (s *service) GetNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.store.ListByReceiver(ctx, userID)
}

// Close tears down every live connection. Stored notifications and their
// read state survive; registry and cache contents do not.
func (s *service) Close() {
	for _, conn := range s.registry.All() {
		s.registry.Remove(conn.ID())
		conn.Close()
	}
}

// drop removes a dead connection from the registry and wakes its writer.
// Cache entries for it are kept so a reconnect can replay them.
func (s *service) drop(conn *Connection) {
	s.registry.Remove(conn.ID())
	conn.Close()
}

func (s *service) publishOffline(ctx context.Context, n *domain.Notification) {
	if s.offline == nil {
		return
	}
	if err := s.offline.Publish(ctx, n.Type.EventName(), n.Content); err != nil {
		slog.Warn("offline publish failed", "notification_id", n.NotificationID, "err", err)
	}
}
