package domain

// Event is a notification-worthy fact published by a domain service after
// its write has been committed. The event bridge turns these into stored
// notifications and live pushes.
type Event interface {
	EventName() string
}

// PlaylistUpdatedEvent fires when a playlist's metadata changes.
type PlaylistUpdatedEvent struct {
	PlaylistID string
	OwnerID    string
	Title      string
}

func (PlaylistUpdatedEvent) EventName() string { return "playlist.updated" }

// PlaylistSubscribedEvent fires when a user subscribes to someone's playlist.
type PlaylistSubscribedEvent struct {
	PlaylistID   string
	OwnerID      string
	Title        string
	SubscriberID string
}

func (PlaylistSubscribedEvent) EventName() string { return "playlist.subscribed" }

// FollowingPostedPlaylistEvent fires when a user posts a new playlist,
// so their followers can be told about it.
type FollowingPostedPlaylistEvent struct {
	CreatorID    string
	CreatorName  string
	PlaylistID   string
	PlaylistName string
	IsPublic     bool
}

func (FollowingPostedPlaylistEvent) EventName() string { return "playlist.posted" }

// FollowedEvent fires when FollowerID starts following FolloweeID.
type FollowedEvent struct {
	FollowerID   string
	FollowerName string
	FolloweeID   string
}

func (FollowedEvent) EventName() string { return "follow.created" }

// UnfollowedEvent fires when FollowerID stops following FolloweeID.
type UnfollowedEvent struct {
	FollowerID   string
	FollowerName string
	FolloweeID   string
}

func (UnfollowedEvent) EventName() string { return "follow.removed" }

// DMReceivedEvent fires when a direct message lands in ReceiverID's room.
type DMReceivedEvent struct {
	RoomID     string
	SenderID   string
	ReceiverID string
	Content    string
}

func (DMReceivedEvent) EventName() string { return "dm.received" }

// NewDMRoomEvent fires when a DM room is created with ReceiverID in it.
type NewDMRoomEvent struct {
	RoomID     string
	ReceiverID string
}

func (NewDMRoomEvent) EventName() string { return "dm.room_created" }
