package domain

import "time"

// Follow is a directed follower->followee edge.
type Follow struct {
	FollowID     string    `json:"id" dynamodbav:"follow_id"`
	FollowerID   string    `json:"follower_id" dynamodbav:"follower_id"`
	FollowerName string    `json:"follower_name" dynamodbav:"follower_name"`
	FolloweeID   string    `json:"followee_id" dynamodbav:"followee_id"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
}
