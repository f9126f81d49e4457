package domain

import "time"

// NotificationType enumerates every kind of notification the platform emits.
type NotificationType string

const (
	NotificationRoleChanged             NotificationType = "ROLE_CHANGED"
	NotificationPlaylistSubscribed      NotificationType = "PLAYLIST_SUBSCRIBED"
	NotificationFollowingPostedPlaylist NotificationType = "FOLLOWING_POSTED_PLAYLIST"
	NotificationFollowed                NotificationType = "FOLLOWED"
	NotificationUnfollowed              NotificationType = "UNFOLLOWED"
	NotificationDMReceived              NotificationType = "DM_RECEIVED"
	NotificationNewDMRoom               NotificationType = "NEW_DM_ROOM"
)

// EventName returns the wire-level name written to the SSE `event:` field.
func (t NotificationType) EventName() string {
	switch t {
	case NotificationRoleChanged:
		return "role_changed"
	case NotificationPlaylistSubscribed:
		return "play_subscribed"
	case NotificationFollowingPostedPlaylist:
		return "following_posted_playlist"
	case NotificationFollowed:
		return "followed"
	case NotificationUnfollowed:
		return "unfollowed"
	case NotificationDMReceived:
		return "dm_received"
	case NotificationNewDMRoom:
		return "created new DM room"
	default:
		return string(t)
	}
}

// Notification is a durable per-receiver notification record.
// Every field except IsRead is immutable after creation.
type Notification struct {
	NotificationID string           `json:"id" dynamodbav:"notification_id"`
	ReceiverID     string           `json:"receiver_id" dynamodbav:"receiver_id"`
	Type           NotificationType `json:"type" dynamodbav:"type"`
	Content        string           `json:"content" dynamodbav:"content"`
	IsRead         bool             `json:"is_read" dynamodbav:"is_read"`
	CreatedAt      time.Time        `json:"created_at" dynamodbav:"created_at"`
}
