package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/playroom-api/internal/application/playlist"
	"github.com/playroom-api/internal/pkg/validate"
)

// PlaylistHandler handles the minimal playlist surface the notification side
// of the platform exposes.
type PlaylistHandler struct {
	svc playlist.Service
}

func NewPlaylistHandler(svc playlist.Service) *PlaylistHandler {
	return &PlaylistHandler{svc: svc}
}

type createPlaylistRequest struct {
	OwnerID   string `json:"owner_id" validate:"required"`
	OwnerName string `json:"owner_name" validate:"required"`
	Title     string `json:"title" validate:"required,max=255"`
	IsPublic  bool   `json:"is_public"`
}

type renamePlaylistRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !requireSelf(w, r, req.OwnerID) {
		return
	}

	p, err := h.svc.Create(r.Context(), req.OwnerID, req.OwnerName, req.Title, req.IsPublic)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PlaylistHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renamePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	playlistID := chi.URLParam(r, "id")
	current, err := h.svc.Get(r.Context(), playlistID)
	if err != nil {
		httpError(w, err)
		return
	}
	if !requireSelf(w, r, current.OwnerID) {
		return
	}

	p, err := h.svc.Rename(r.Context(), playlistID, req.Title)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
