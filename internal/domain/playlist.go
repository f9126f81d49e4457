package domain

import "time"

// Playlist is the minimal playlist record the notification side needs:
// ownership and visibility for fan-out decisions, title for content strings.
type Playlist struct {
	PlaylistID string    `json:"id" dynamodbav:"playlist_id"`
	OwnerID    string    `json:"owner_id" dynamodbav:"owner_id"`
	OwnerName  string    `json:"owner_name" dynamodbav:"owner_name"`
	Title      string    `json:"title" dynamodbav:"title"`
	IsPublic   bool      `json:"is_public" dynamodbav:"is_public"`
	CreatedAt  time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" dynamodbav:"updated_at"`
}
