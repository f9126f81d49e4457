package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/playroom-api/internal/domain"
)

// Notifier is the slice of the delivery service the bridge needs.
type Notifier interface {
	SendNotification(ctx context.Context, receiverID string, typ domain.NotificationType, content string) error
}

// FollowerSource answers "who follows this user" for fan-out.
type FollowerSource interface {
	ListFollowers(ctx context.Context, followeeID string) ([]domain.Follow, error)
}

// SubscriberSource answers "who subscribes to this playlist" for fan-out.
type SubscriberSource interface {
	ListByPlaylist(ctx context.Context, playlistID string) ([]domain.Subscription, error)
}

// Bridge adapts domain events into notification sends. It runs strictly
// after the originating write committed (the bus guarantees the ordering);
// a failure while handling one event never blocks the others.
type Bridge struct {
	notifier    Notifier
	followers   FollowerSource
	subscribers SubscriberSource
}

func NewBridge(notifier Notifier, followers FollowerSource, subscribers SubscriberSource) *Bridge {
	return &Bridge{notifier: notifier, followers: followers, subscribers: subscribers}
}

// Register wires every handler onto the bus.
func (br *Bridge) Register(bus *Bus) {
	bus.Subscribe(domain.PlaylistUpdatedEvent{}.EventName(), br.onPlaylistUpdated)
	bus.Subscribe(domain.PlaylistSubscribedEvent{}.EventName(), br.onPlaylistSubscribed)
	bus.Subscribe(domain.FollowingPostedPlaylistEvent{}.EventName(), br.onFollowingPostedPlaylist)
	bus.Subscribe(domain.FollowedEvent{}.EventName(), br.onFollowed)
	bus.Subscribe(domain.UnfollowedEvent{}.EventName(), br.onUnfollowed)
	bus.Subscribe(domain.DMReceivedEvent{}.EventName(), br.onDMReceived)
	bus.Subscribe(domain.NewDMRoomEvent{}.EventName(), br.onNewDMRoom)
}

// onPlaylistUpdated notifies every current subscriber of the playlist.
// There is no dedicated "playlist updated" notification type; these go out
// tagged as playlist-subscribed, as the platform always has.
func (br *Bridge) onPlaylistUpdated(ctx context.Context, ev domain.Event) {
	e, ok := ev.(domain.PlaylistUpdatedEvent)
	if !ok {
		return
	}
	subs, err := br.subscribers.ListByPlaylist(ctx, e.PlaylistID)
	if err != nil {
		slog.Error("subscriber lookup failed", "playlist_id", e.PlaylistID, "err", err)
		return
	}
	if len(subs) == 0 {
		slog.Debug("no subscribers, skipping fan-out", "playlist_id", e.PlaylistID)
		return
	}
	content := fmt.Sprintf("Playlist updated: %s", e.Title)
	for _, sub := range subs {
		br.send(ctx, sub.SubscriberID, domain.NotificationPlaylistSubscribed, content)
	}
}

// onPlaylistSubscribed notifies the playlist owner about a new subscriber.
func (br *Bridge) onPlaylistSubscribed(ctx context.Context, ev domain.Event) {
	e, ok := ev.(domain.PlaylistSubscribedEvent)
	if !ok {
		return
	}
	content := fmt.Sprintf("Your playlist %s has a new subscriber", e.Title)
	br.send(ctx, e.OwnerID, domain.NotificationPlaylistSubscribed, content)
}

// onFollowingPostedPlaylist notifies every follower of the poster. Skipped
// entirely for private playlists and posters without followers, so nothing
// is written to the store needlessly.
func (br *Bridge) onFollowingPostedPlaylist(ctx context.Context, ev domain.Event) {
	e, ok := ev.(domain.FollowingPostedPlaylistEvent)
	if !ok {
		return
	}
	if !e.IsPublic {
		slog.Debug("private playlist, skipping fan-out", "playlist_id", e.PlaylistID)
		return
	}
	followers, err := br.followers.ListFollowers(ctx, e.CreatorID)
	if err != nil {
		slog.Error("follower lookup failed", "creator_id", e.CreatorID, "err", err)
		return
	}
	if len(followers) == 0 {
		slog.Debug("no followers, skipping fan-out", "creator_id", e.CreatorID)
		return
	}
	content := fmt.Sprintf("%s posted a new playlist: %s", e.CreatorName, e.PlaylistName)
	for _, f := range followers {
		br.send(ctx, f.FollowerID, domain.NotificationFollowingPostedPlaylist, content)
	}
}

func (br *Bridge) onFollowed(ctx context.Context, ev domain.Event) {
	e, ok := ev.(domain.FollowedEvent)
	if !ok {
		return
	}
	content := fmt.Sprintf("%s followed you", e.FollowerName)
	br.send(ctx, e.FolloweeID, domain.NotificationFollowed, content)
}

func (br *Bridge) onUnfollowed(ctx context.Context, ev domain.Event) {
	e, ok := ev.(domain.UnfollowedEvent)
	if !ok {
		return
	}
	content := fmt.Sprintf("%s unfollowed you", e.FollowerName)
	br.send(ctx, e.FolloweeID, domain.NotificationUnfollowed, content)
}

// onDMReceived passes the message body through as the notification content.
func (br *Bridge) onDMReceived(ctx context.Context, ev domain.Event) {
	e, ok := ev.(domain.DMReceivedEvent)
	if !ok {
		return
	}
	br.send(ctx, e.ReceiverID, domain.NotificationDMReceived, e.Content)
}

func (br *Bridge) onNewDMRoom(ctx context.Context, ev domain.Event) {
	e, ok := ev.(domain.NewDMRoomEvent)
	if !ok {
		return
	}
	br.send(ctx, e.ReceiverID, domain.NotificationNewDMRoom, "A new DM room was created")
}

// send logs instead of propagating: one receiver's failure must not stop
// the remaining receivers of the same event.
func (br *Bridge) send(ctx context.Context, receiverID string, typ domain.NotificationType, content string) {
	if err := br.notifier.SendNotification(ctx, receiverID, typ, content); err != nil {
		slog.Error("notification send failed", "receiver_id", receiverID, "type", typ, "err", err)
	}
}
