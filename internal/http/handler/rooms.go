package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"platea/internal/auth"
	"platea/internal/realtime"
	"platea/internal/recipe"
	"platea/internal/room"

	"github.com/go-chi/chi/v5"
)

type RoomHandler struct {
	Svc *room.Service
	Hub *realtime.Hub
}

func roomErrStatus(err error) (int, string) {
	switch {
	case errors.Is(err, room.ErrNotFound):
		return http.StatusNotFound, "room not found"
	case errors.Is(err, room.ErrInvalidInvite):
		return http.StatusNotFound, "invalid invite code"
	case errors.Is(err, room.ErrExpiredInvite):
		return http.StatusGone, "invite expired"
	case errors.Is(err, room.ErrAlreadyMember):
		return http.StatusConflict, "already a member"
	case errors.Is(err, room.ErrForbidden), errors.Is(err, room.ErrNotMember):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, room.ErrInvalidRoom), errors.Is(err, room.ErrInvalidSuggestion):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, recipe.ErrInvalidRecipe):
		return http.StatusBadRequest, "invalid recipe"
	}
	return http.StatusInternalServerError, "server error"
}

func (h *RoomHandler) fail(w http.ResponseWriter, err error) {
	status, msg := roomErrStatus(err)
	http.Error(w, msg, status)
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	rm, err := h.Svc.CreateRoom(r.Context(), uid, req.Name)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rm)
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rooms, err := h.Svc.ListRooms(r.Context(), uid)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	d, err := h.Svc.GetRoom(r.Context(), uid, roomID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"room":    d.Room,
		"members": d.Members,
		"recipes": d.Recipes,
	})
}

func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	if err := h.Svc.JoinRoom(r.Context(), uid, roomID); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *RoomHandler) JoinViaInvite(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	code := strings.TrimSpace(chi.URLParam(r, "code"))

	rm, err := h.Svc.JoinViaInvite(r.Context(), uid, code)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

func (h *RoomHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	inv, err := h.Svc.CreateInvite(r.Context(), uid, roomID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"code":       inv.Code,
		"expires_at": inv.ExpiresAt,
	})
}

func (h *RoomHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	invites, err := h.Svc.ListInvites(r.Context(), uid, roomID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invites)
}

func (h *RoomHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	var req struct {
		UserID uint64 `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		http.Error(w, "user_id required", http.StatusBadRequest)
		return
	}

	if err := h.Svc.RemoveMember(r.Context(), uid, roomID, req.UserID); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RoomHandler) AddSuggestion(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	var req struct {
		Date string `json:"date"`
		Slot string `json:"slot"`
		Dish string `json:"dish"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	sg, err := h.Svc.AddSuggestion(r.Context(), uid, roomID, req.Date, req.Slot, req.Dish)
	if err != nil {
		h.fail(w, err)
		return
	}

	// publish strictly after the write succeeded
	h.Hub.Publish(roomID, realtime.Event{Type: realtime.EventSuggestionAdded, RoomID: roomID})

	writeJSON(w, http.StatusCreated, sg)
}

func (h *RoomHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		http.Error(w, "date required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	board, err := h.Svc.ListSuggestions(r.Context(), uid, roomID, date)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *RoomHandler) ShareRecipe(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	roomID, err := roomIDParam(r)
	if err != nil {
		http.Error(w, "invalid room id", http.StatusBadRequest)
		return
	}

	var req createRecipeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	rec, err := h.Svc.ShareRecipe(r.Context(), uid, roomID, recipe.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	h.Hub.Publish(roomID, realtime.Event{Type: realtime.EventRecipeAdded, RoomID: roomID})

	writeJSON(w, http.StatusCreated, rec)
}

func roomIDParam(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "roomID"), 10, 64)
}
