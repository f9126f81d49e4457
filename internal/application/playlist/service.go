package playlist

import (
	"context"
	"time"

	"github.com/playroom-api/internal/application/event"
	"github.com/playroom-api/internal/domain"
	"github.com/playroom-api/internal/pkg/id"
)

// Store is the playlist persistence the service requires.
type Store interface {
	Put(ctx context.Context, p *domain.Playlist) error
	Get(ctx context.Context, playlistID string) (*domain.Playlist, error)
	UpdateTitle(ctx context.Context, playlistID, title string) error
}

type Service interface {
	Create(ctx context.Context, ownerID, ownerName, title string, isPublic bool) (*domain.Playlist, error)
	Rename(ctx context.Context, playlistID, title string) (*domain.Playlist, error)
	Get(ctx context.Context, playlistID string) (*domain.Playlist, error)
}

type service struct {
	store Store
	bus   *event.Bus
}

func NewService(store Store, bus *event.Bus) Service {
	return &service{store: store, bus: bus}
}

// Create persists the playlist, then announces it to the owner's followers.
// Private playlists still publish; the bridge is the one that skips them,
// keeping the visibility rule in a single place.
func (s *service) Create(ctx context.Context, ownerID, ownerName, title string, isPublic bool) (*domain.Playlist, error) {
	now := time.Now().UTC()
	p := &domain.Playlist{
		PlaylistID: id.New(),
		OwnerID:    ownerID,
		OwnerName:  ownerName,
		Title:      title,
		IsPublic:   isPublic,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Put(ctx, p); err != nil {
		return nil, err
	}
	s.bus.Publish(domain.FollowingPostedPlaylistEvent{
		CreatorID:    ownerID,
		CreatorName:  ownerName,
		PlaylistID:   p.PlaylistID,
		PlaylistName: title,
		IsPublic:     isPublic,
	})
	return p, nil
}

// Rename updates the title, then tells the playlist's subscribers.
func (s *service) Rename(ctx context.Context, playlistID, title string) (*domain.Playlist, error) {
	p, err := s.store.Get(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateTitle(ctx, playlistID, title); err != nil {
		return nil, err
	}
	p.Title = title
	s.bus.Publish(domain.PlaylistUpdatedEvent{
		PlaylistID: playlistID,
		OwnerID:    p.OwnerID,
		Title:      title,
	})
	return p, nil
}

func (s *service) Get(ctx context.Context, playlistID string) (*domain.Playlist, error) {
	return s.store.Get(ctx, playlistID)
}
