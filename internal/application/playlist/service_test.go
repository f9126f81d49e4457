package playlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/playroom-api/internal/application/event"
	"github.com/playroom-api/internal/domain"
	"github.com/playroom-api/internal/pkg/id"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, p *domain.Playlist) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockStore) Get(ctx context.Context, playlistID string) (*domain.Playlist, error) {
	args := m.Called(ctx, playlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Playlist), args.Error(1)
}

func (m *mockStore) UpdateTitle(ctx context.Context, playlistID, title string) error {
	args := m.Called(ctx, playlistID, title)
	return args.Error(0)
}

func startBus(t *testing.T) (*event.Bus, chan domain.Event) {
	t.Helper()
	bus := event.NewBus(16)
	published := make(chan domain.Event, 16)
	for _, name := range []string{
		domain.FollowingPostedPlaylistEvent{}.EventName(),
		domain.PlaylistUpdatedEvent{}.EventName(),
	} {
		bus.Subscribe(name, func(_ context.Context, ev domain.Event) { published <- ev })
	}
	bus.Start(context.Background())
	t.Cleanup(bus.Stop)
	return bus, published
}

func awaitEvent(t *testing.T, ch chan domain.Event) domain.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event published")
		return nil
	}
}

func TestCreate_PersistsThenPublishes(t *testing.T) {
	store := &mockStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	bus, published := startBus(t)

	svc := NewService(store, bus)
	p, err := svc.Create(context.Background(), "u1", "alice", "Road Trip", true)
	require.NoError(t, err)
	assert.True(t, id.Valid(p.PlaylistID))
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	ev := awaitEvent(t, published).(domain.FollowingPostedPlaylistEvent)
	assert.Equal(t, "alice", ev.CreatorName)
	assert.Equal(t, p.PlaylistID, ev.PlaylistID)
	assert.True(t, ev.IsPublic)
}

func TestCreate_PrivateStillPublishes(t *testing.T) {
	// The visibility rule lives in the event bridge; the service always
	// announces and lets the bridge decide whether anyone hears about it.
	store := &mockStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	bus, published := startBus(t)

	svc := NewService(store, bus)
	_, err := svc.Create(context.Background(), "u1", "alice", "Secret", false)
	require.NoError(t, err)

	ev := awaitEvent(t, published).(domain.FollowingPostedPlaylistEvent)
	assert.False(t, ev.IsPublic)
}

func TestCreate_StoreFailureSuppressesEvent(t *testing.T) {
	store := &mockStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(assert.AnError)
	bus, published := startBus(t)

	svc := NewService(store, bus)
	_, err := svc.Create(context.Background(), "u1", "alice", "Road Trip", true)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, published)
}

func TestRename_UpdatesAndNotifiesSubscribers(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "p1").Return(&domain.Playlist{
		PlaylistID: "p1", OwnerID: "u1", Title: "Old",
	}, nil)
	store.On("UpdateTitle", mock.Anything, "p1", "New").Return(nil)
	bus, published := startBus(t)

	svc := NewService(store, bus)
	p, err := svc.Rename(context.Background(), "p1", "New")
	require.NoError(t, err)
	assert.Equal(t, "New", p.Title)

	ev := awaitEvent(t, published).(domain.PlaylistUpdatedEvent)
	assert.Equal(t, "p1", ev.PlaylistID)
	assert.Equal(t, "New", ev.Title)
}

func TestRename_UnknownPlaylist(t *testing.T) {
	store := &mockStore{}
	store.On("Get", mock.Anything, "missing").Return(nil, domain.ErrNotFound)
	bus, published := startBus(t)

	svc := NewService(store, bus)
	_, err := svc.Rename(context.Background(), "missing", "New")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, published)
}
