package handler

import (
	"encoding/json"
	"net/http"

	"github.com/playroom-api/internal/application/follow"
	"github.com/playroom-api/internal/pkg/validate"
)

// FollowHandler handles follow-edge endpoints.
type FollowHandler struct {
	svc follow.Service
}

func NewFollowHandler(svc follow.Service) *FollowHandler {
	return &FollowHandler{svc: svc}
}

type followRequest struct {
	FollowerID   string `json:"follower_id" validate:"required"`
	FollowerName string `json:"follower_name" validate:"required"`
	FolloweeID   string `json:"followee_id" validate:"required"`
}

type unfollowRequest struct {
	FollowerID string `json:"follower_id" validate:"required"`
	FolloweeID string `json:"followee_id" validate:"required"`
}

func (h *FollowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !requireSelf(w, r, req.FollowerID) {
		return
	}

	f, err := h.svc.Follow(r.Context(), req.FollowerID, req.FollowerName, req.FolloweeID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *FollowHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req unfollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !requireSelf(w, r, req.FollowerID) {
		return
	}

	if err := h.svc.Unfollow(r.Context(), req.FollowerID, req.FolloweeID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "unfollowed"})
}
