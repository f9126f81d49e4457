package domain

import "time"

// Subscription records that a user follows updates of a playlist.
type Subscription struct {
	SubscriptionID string    `json:"id" dynamodbav:"subscription_id"`
	PlaylistID     string    `json:"playlist_id" dynamodbav:"playlist_id"`
	SubscriberID   string    `json:"subscriber_id" dynamodbav:"subscriber_id"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at"`
}
