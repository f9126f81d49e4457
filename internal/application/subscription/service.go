package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playroom-api/internal/application/event"
	"github.com/playroom-api/internal/domain"
	"github.com/playroom-api/internal/infrastructure/dynamo"
)

// Store is the subscription persistence the service requires.
type Store interface {
	Put(ctx context.Context, s *domain.Subscription) error
	Get(ctx context.Context, subscriptionID string) (*domain.Subscription, error)
	Delete(ctx context.Context, subscriptionID string) error
	ListByPlaylist(ctx context.Context, playlistID string) ([]domain.Subscription, error)
}

// PlaylistStore resolves the playlist being subscribed to.
type PlaylistStore interface {
	Get(ctx context.Context, playlistID string) (*domain.Playlist, error)
}

type Service interface {
	Subscribe(ctx context.Context, subscriberID, playlistID string) (*domain.Subscription, error)
	Unsubscribe(ctx context.Context, subscriberID, playlistID string) error
}

type service struct {
	store     Store
	playlists PlaylistStore
	bus       *event.Bus
}

func NewService(store Store, playlists PlaylistStore, bus *event.Bus) Service {
	return &service{store: store, playlists: playlists, bus: bus}
}

// Subscribe persists the subscription, then publishes playlist-subscribed so
// the owner gets notified. Self-subscription and duplicates are rejected.
func (s *service) Subscribe(ctx context.Context, subscriberID, playlistID string) (*domain.Subscription, error) {
	p, err := s.playlists.Get(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID == subscriberID {
		return nil, fmt.Errorf("cannot subscribe to your own playlist: %w", domain.ErrBadRequest)
	}

	subID := dynamo.SubscriptionID(subscriberID, playlistID)
	if _, err := s.store.Get(ctx, subID); err == nil {
		return nil, fmt.Errorf("already subscribed: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	sub := &domain.Subscription{
		SubscriptionID: subID,
		PlaylistID:     playlistID,
		SubscriberID:   subscriberID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.Put(ctx, sub); err != nil {
		return nil, err
	}
	s.bus.Publish(domain.PlaylistSubscribedEvent{
		PlaylistID:   playlistID,
		OwnerID:      p.OwnerID,
		Title:        p.Title,
		SubscriberID: subscriberID,
	})
	return sub, nil
}

func (s *service) Unsubscribe(ctx context.Context, subscriberID, playlistID string) error {
	subID := dynamo.SubscriptionID(subscriberID, playlistID)
	if _, err := s.store.Get(ctx, subID); err != nil {
		return err
	}
	return s.store.Delete(ctx, subID)
}
