package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/playroom-api/internal/application/notification"
	"github.com/playroom-api/internal/domain"
	jwtinfra "github.com/playroom-api/internal/infrastructure/jwt"
	"github.com/playroom-api/internal/transport/http/middleware"
)

// --- mock ---

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) Put(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotificationStore) ListByReceiver(ctx context.Context, receiverID string) ([]domain.Notification, error) {
	args := m.Called(ctx, receiverID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *mockNotificationStore) ListUnread(ctx context.Context, receiverID string) ([]domain.Notification, error) {
	args := m.Called(ctx, receiverID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *mockNotificationStore) MarkRead(ctx context.Context, notificationID string) error {
	return m.Called(ctx, notificationID).Error(0)
}

// --- helpers ---

func newStreamService(store notification.Store) notification.Service {
	return notification.NewService(store, notification.Options{
		ConnectionLifetime: time.Hour,
		HeartbeatInterval:  time.Hour,
		EventBufferSize:    8,
	})
}

func streamServer(t *testing.T, svc notification.Service) *httptest.Server {
	t.Helper()
	h := NewNotificationHandler(svc)
	r := chi.NewRouter()
	r.Get("/v1/notifications/subscribe/{userId}", h.Subscribe)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type sseFrame struct {
	id    string
	event string
	data  string
}

// readFrame consumes one id/event/data block off the stream.
func readFrame(t *testing.T, br *bufio.Reader) sseFrame {
	t.Helper()
	var f sseFrame
	for {
		line, err := br.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" {
			if f.id == "" && f.event == "" && f.data == "" {
				continue
			}
			return f
		}
		switch {
		case strings.HasPrefix(line, "id: "):
			f.id = strings.TrimPrefix(line, "id: ")
		case strings.HasPrefix(line, "event: "):
			f.event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			f.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func openStream(t *testing.T, url, lastEventID string) (*bufio.Reader, *http.Response) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	if lastEventID != "" {
		req.Header.Set("Last-Event-ID", lastEventID)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return bufio.NewReader(resp.Body), resp
}

func withChiUserID(r *http.Request, userID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userId", userID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withClaims(r *http.Request, userID string) *http.Request {
	claims := &jwtinfra.Claims{UserID: userID}
	return r.WithContext(context.WithValue(r.Context(), middleware.ClaimsKey, claims))
}

// --- Subscribe tests ---

func TestSubscribe_StreamHeadersAndConnectedFrame(t *testing.T) {
	svc := newStreamService(&mockNotificationStore{})
	defer svc.Close()
	srv := streamServer(t, svc)

	br, resp := openStream(t, srv.URL+"/v1/notifications/subscribe/u1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))

	frame := readFrame(t, br)
	assert.Equal(t, "connected", frame.event)
	assert.JSONEq(t, `"connection established"`, frame.data)
}

func TestSubscribe_PushesLiveNotifications(t *testing.T) {
	store := &mockNotificationStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	svc := newStreamService(store)
	defer svc.Close()
	srv := streamServer(t, svc)

	br, _ := openStream(t, srv.URL+"/v1/notifications/subscribe/u1", "")
	readFrame(t, br) // connected

	require.NoError(t, svc.SendNotification(context.Background(), "u1", domain.NotificationFollowed, "alice followed you"))

	frame := readFrame(t, br)
	assert.Equal(t, "followed", frame.event)
	assert.NotEmpty(t, frame.id)

	var n domain.Notification
	require.NoError(t, json.Unmarshal([]byte(frame.data), &n))
	assert.Equal(t, "alice followed you", n.Content)
	assert.Equal(t, "u1", n.ReceiverID)
	assert.True(t, strings.HasPrefix(frame.id, n.NotificationID+"_"))
}

func TestSubscribe_ReplaysMissedEvents(t *testing.T) {
	store := &mockNotificationStore{}
	store.On("Put", mock.Anything, mock.Anything).Return(nil)
	svc := newStreamService(store)
	defer svc.Close()
	srv := streamServer(t, svc)

	// A previous connection received a notification and then dropped.
	prev := svc.Subscribe("u1", "")
	require.NoError(t, svc.SendNotification(context.Background(), "u1", domain.NotificationFollowed, "alice followed you"))
	svc.Unsubscribe(prev.ID())

	// Reconnect asking for everything after the beginning of time.
	br, _ := openStream(t, srv.URL+"/v1/notifications/subscribe/u1", "00000000000000000000000000_x")

	replayed := readFrame(t, br)
	assert.Equal(t, "followed", replayed.event)
	var n domain.Notification
	require.NoError(t, json.Unmarshal([]byte(replayed.data), &n))
	assert.Equal(t, "alice followed you", n.Content)

	connected := readFrame(t, br)
	assert.Equal(t, "connected", connected.event)
}

func TestSubscribe_ForbiddenForOtherUser(t *testing.T) {
	svc := newStreamService(&mockNotificationStore{})
	defer svc.Close()
	h := NewNotificationHandler(svc)

	r := httptest.NewRequest(http.MethodGet, "/v1/notifications/subscribe/u1", nil)
	r = withClaims(withChiUserID(r, "u1"), "someone-else")
	rr := httptest.NewRecorder()
	h.Subscribe(rr, r)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

// --- List tests ---

func TestList_ReturnsNotificationsAndMarksRead(t *testing.T) {
	store := &mockNotificationStore{}
	stored := []domain.Notification{
		{NotificationID: "n2", ReceiverID: "u1", Content: "newer", IsRead: false},
		{NotificationID: "n1", ReceiverID: "u1", Content: "older", IsRead: true},
	}
	store.On("ListByReceiver", mock.Anything, "u1").Return(stored, nil)
	store.On("ListUnread", mock.Anything, "u1").Return(stored[:1], nil)
	store.On("MarkRead", mock.Anything, "n2").Return(nil)

	svc := newStreamService(store)
	defer svc.Close()
	h := NewNotificationHandler(svc)

	r := withChiUserID(httptest.NewRequest(http.MethodGet, "/v1/notifications/u1", nil), "u1")
	rr := httptest.NewRecorder()
	h.List(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []domain.Notification
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].Content)
	store.AssertExpectations(t)
}

func TestList_StoreFailure(t *testing.T) {
	store := &mockNotificationStore{}
	store.On("ListByReceiver", mock.Anything, "u1").Return([]domain.Notification{}, assert.AnError)

	svc := newStreamService(store)
	defer svc.Close()
	h := NewNotificationHandler(svc)

	r := withChiUserID(httptest.NewRequest(http.MethodGet, "/v1/notifications/u1", nil), "u1")
	rr := httptest.NewRecorder()
	h.List(rr, r)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestList_ForbiddenForOtherUser(t *testing.T) {
	svc := newStreamService(&mockNotificationStore{})
	defer svc.Close()
	h := NewNotificationHandler(svc)

	r := httptest.NewRequest(http.MethodGet, "/v1/notifications/u1", nil)
	r = withClaims(withChiUserID(r, "u1"), "someone-else")
	rr := httptest.NewRecorder()
	h.List(rr, r)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
