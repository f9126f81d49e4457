package handler

import (
	"encoding/json"
	"net/http"

	"github.com/playroom-api/internal/application/subscription"
	"github.com/playroom-api/internal/pkg/validate"
)

// SubscriptionHandler handles playlist-subscription endpoints.
type SubscriptionHandler struct {
	svc subscription.Service
}

func NewSubscriptionHandler(svc subscription.Service) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

type subscriptionRequest struct {
	SubscriberID string `json:"subscriber_id" validate:"required"`
	PlaylistID   string `json:"playlist_id" validate:"required"`
}

func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !requireSelf(w, r, req.SubscriberID) {
		return
	}

	sub, err := h.svc.Subscribe(r.Context(), req.SubscriberID, req.PlaylistID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubscriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !requireSelf(w, r, req.SubscriberID) {
		return
	}

	if err := h.svc.Unsubscribe(r.Context(), req.SubscriberID, req.PlaylistID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "unsubscribed"})
}
