package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"platea/internal/auth"
	"platea/internal/prefs"
	"platea/internal/recipe"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB    *gorm.DB
	Prefs *prefs.Service
}

// Profile returns the current user plus the authoritative like and
// bookmark sets; clients replace their local mirror with these.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var u auth.User
	if err := h.DB.First(&u, "id = ?", uid).Error; err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	liked, err := h.Prefs.ListLiked(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	bookmarked, err := h.Prefs.ListBookmarked(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":              userToPayload(u),
		"likedRecipes":      wireIDs(liked),
		"bookmarkedRecipes": wireIDs(bookmarked),
	})
}

type prefBody struct {
	RecipeData json.RawMessage `json:"recipeData"`
}

func (h *UserHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.addPref(w, r, h.Prefs.Like)
}

func (h *UserHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.removePref(w, r, h.Prefs.Unlike)
}

func (h *UserHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	h.addPref(w, r, h.Prefs.Bookmark)
}

func (h *UserHandler) Unbookmark(w http.ResponseWriter, r *http.Request) {
	h.removePref(w, r, h.Prefs.Unbookmark)
}

func (h *UserHandler) ListLiked(w http.ResponseWriter, r *http.Request) {
	h.listPrefs(w, r, h.Prefs.ListLiked)
}

func (h *UserHandler) ListBookmarked(w http.ResponseWriter, r *http.Request) {
	h.listPrefs(w, r, h.Prefs.ListBookmarked)
}

type addFn func(ctx context.Context, userID uint64, ref recipe.Ref, snap *prefs.Snapshot) error

func (h *UserHandler) addPref(w http.ResponseWriter, r *http.Request, add addFn) {
	uid, _ := auth.UserIDFromContext(r.Context())

	ref, err := recipe.ParseWireID(chi.URLParam(r, "refID"))
	if err != nil {
		http.Error(w, "invalid recipe id", http.StatusBadRequest)
		return
	}

	var snap *prefs.Snapshot
	var body prefBody
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil && len(body.RecipeData) > 0 {
		s := prefs.SnapshotFromJSON(body.RecipeData)
		snap = &s
	}

	err = add(r.Context(), uid, ref, snap)
	if errors.Is(err, prefs.ErrAlreadyLiked) || errors.Is(err, prefs.ErrAlreadyBookmarked) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *UserHandler) removePref(w http.ResponseWriter, r *http.Request, remove func(ctx context.Context, userID uint64, ref recipe.Ref) error) {
	uid, _ := auth.UserIDFromContext(r.Context())

	ref, err := recipe.ParseWireID(chi.URLParam(r, "refID"))
	if err != nil {
		http.Error(w, "invalid recipe id", http.StatusBadRequest)
		return
	}

	err = remove(r.Context(), uid, ref)
	if errors.Is(err, prefs.ErrNotLiked) || errors.Is(err, prefs.ErrNotBookmarked) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type entryDTO struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Category string `json:"category,omitempty"`
	Area     string `json:"area,omitempty"`
}

func (h *UserHandler) listPrefs(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID uint64) ([]prefs.Entry, error)) {
	uid, _ := auth.UserIDFromContext(r.Context())

	entries, err := list(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryDTO{
			ID:       e.Ref.WireID(),
			Kind:     string(e.Ref.Kind),
			Title:    e.Title,
			Image:    e.Image,
			Category: e.Category,
			Area:     e.Area,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func wireIDs(entries []prefs.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Ref.WireID())
	}
	return out
}
