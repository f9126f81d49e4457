package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/playroom-api/internal/application/notification"
)

// NotificationHandler exposes the push subscription stream and the stored
// notification list.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// Subscribe opens a text/event-stream push connection for the user. The
// standard Last-Event-ID request header asks for replay of events the client
// may have missed since its previous connection. The stream ends on client
// disconnect or when the connection's hard lifetime expires; the client is
// expected to resubscribe.
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireSelf(w, r, userID) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	conn := h.svc.Subscribe(userID, r.Header.Get("Last-Event-ID"))
	defer h.svc.Unsubscribe(conn.ID())

	for {
		select {
		case <-r.Context().Done():
			return
		case <-conn.Done():
			return
		case ev := <-conn.Events():
			if err := writeSSE(w, ev); err != nil {
				slog.Debug("sse write failed", "connection_id", conn.ID(), "err", err)
				return
			}
			flusher.Flush()
		}
	}
}

// writeSSE renders one id/event/data frame.
func writeSSE(w http.ResponseWriter, ev notification.Event) error {
	if ev.ID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", ev.ID); err != nil {
			return err
		}
	}
	if ev.Name != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", ev.Name); err != nil {
			return err
		}
	}
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// List returns the user's stored notifications newest-first and, as a side
// effect, marks them all read: fetching the list is what "reading" means
// here. The response reflects the read state at call time.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if !requireSelf(w, r, userID) {
		return
	}

	notifications, err := h.svc.GetNotifications(r.Context(), userID)
	if err != nil {
		httpError(w, err)
		return
	}
	if err := h.svc.MarkAllRead(r.Context(), userID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}
