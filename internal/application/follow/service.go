package follow

import (
	"context"
	"fmt"
	"time"

	"github.com/playroom-api/internal/application/event"
	"github.com/playroom-api/internal/domain"
	"github.com/playroom-api/internal/infrastructure/dynamo"
)

// Store is the follow-edge persistence the service requires.
type Store interface {
	Put(ctx context.Context, f *domain.Follow) error
	Get(ctx context.Context, followID string) (*domain.Follow, error)
	Delete(ctx context.Context, followID string) error
	ListFollowers(ctx context.Context, followeeID string) ([]domain.Follow, error)
}

type Service interface {
	Follow(ctx context.Context, followerID, followerName, followeeID string) (*domain.Follow, error)
	Unfollow(ctx context.Context, followerID, followeeID string) error
	GetFollowers(ctx context.Context, followeeID string) ([]domain.Follow, error)
}

type service struct {
	store Store
	bus   *event.Bus
}

func NewService(store Store, bus *event.Bus) Service {
	return &service{store: store, bus: bus}
}

// Follow persists the edge, then publishes the followed event. The publish
// happens only after the write succeeded — the commit point of this stack.
func (s *service) Follow(ctx context.Context, followerID, followerName, followeeID string) (*domain.Follow, error) {
	if followerID == followeeID {
		return nil, fmt.Errorf("cannot follow yourself: %w", domain.ErrBadRequest)
	}
	f := &domain.Follow{
		FollowID:     dynamo.FollowID(followerID, followeeID),
		FollowerID:   followerID,
		FollowerName: followerName,
		FolloweeID:   followeeID,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Put(ctx, f); err != nil {
		return nil, err
	}
	s.bus.Publish(domain.FollowedEvent{
		FollowerID:   followerID,
		FollowerName: followerName,
		FolloweeID:   followeeID,
	})
	return f, nil
}

func (s *service) Unfollow(ctx context.Context, followerID, followeeID string) error {
	followID := dynamo.FollowID(followerID, followeeID)
	f, err := s.store.Get(ctx, followID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, followID); err != nil {
		return err
	}
	s.bus.Publish(domain.UnfollowedEvent{
		FollowerID:   f.FollowerID,
		FollowerName: f.FollowerName,
		FolloweeID:   f.FolloweeID,
	})
	return nil
}

func (s *service) GetFollowers(ctx context.Context, followeeID string) ([]domain.Follow, error) {
	return s.store.ListFollowers(ctx, followeeID)
}
