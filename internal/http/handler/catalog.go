package handler

import (
	"errors"
	"net/http"
	"strings"

	"platea/internal/catalog"

	"github.com/go-chi/chi/v5"
)

// CatalogHandler proxies the third-party meal/cocktail catalogs.
// Upstream failures come back as 502 so the client can offer a retry.
type CatalogHandler struct {
	Client *catalog.Client
}

func (h *CatalogHandler) failOrServe(w http.ResponseWriter, err error, payload any) {
	if errors.Is(err, catalog.ErrUnavailable) {
		http.Error(w, "catalog unavailable", http.StatusBadGateway)
		return
	}
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	meals, err := h.Client.SearchMeals(r.Context(), q)
	h.failOrServe(w, err, meals)
}

// Filter serves ?category= and ?area= lookups.
func (h *CatalogHandler) Filter(w http.ResponseWriter, r *http.Request) {
	if c := strings.TrimSpace(r.URL.Query().Get("category")); c != "" {
		meals, err := h.Client.MealsByCategory(r.Context(), c)
		h.failOrServe(w, err, meals)
		return
	}
	if a := strings.TrimSpace(r.URL.Query().Get("area")); a != "" {
		meals, err := h.Client.MealsByArea(r.Context(), a)
		h.failOrServe(w, err, meals)
		return
	}
	http.Error(w, "category or area required", http.StatusBadRequest)
}

func (h *CatalogHandler) MealByID(w http.ResponseWriter, r *http.Request) {
	meal, err := h.Client.MealByID(r.Context(), chi.URLParam(r, "id"))
	if err == nil && meal == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	h.failOrServe(w, err, meal)
}

func (h *CatalogHandler) Random(w http.ResponseWriter, r *http.Request) {
	meal, err := h.Client.RandomMeal(r.Context())
	h.failOrServe(w, err, meal)
}

func (h *CatalogHandler) SearchDrinks(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	drinks, err := h.Client.SearchDrinks(r.Context(), q)
	h.failOrServe(w, err, drinks)
}

func (h *CatalogHandler) DrinkByID(w http.ResponseWriter, r *http.Request) {
	drink, err := h.Client.DrinkByID(r.Context(), chi.URLParam(r, "id"))
	if err == nil && drink == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	h.failOrServe(w, err, drink)
}
