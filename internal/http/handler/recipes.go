package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"platea/internal/auth"
	"platea/internal/prefs"
	"platea/internal/recipe"

	"github.com/go-chi/chi/v5"
)

type RecipeHandler struct {
	Svc   *recipe.Service
	Prefs *prefs.Service
}

type createRecipeReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	ImageURL    string   `json:"image_url"`
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createRecipeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	rec, err := h.Svc.Create(r.Context(), uid, recipe.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		ImageURL:    req.ImageURL,
	})
	if errors.Is(err, recipe.ErrInvalidRecipe) {
		http.Error(w, "title, ingredients and steps are required", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	rec, err := h.Svc.Get(r.Context(), id)
	if errors.Is(err, recipe.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	likes, bookmarks, err := h.Prefs.Counts(r.Context(), recipe.InternalRef(rec.ID))
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recipe":    rec,
		"likes":     likes,
		"bookmarks": bookmarks,
	})
}

func (h *RecipeHandler) Mine(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.Svc.ListByOwner(r.Context(), uid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
