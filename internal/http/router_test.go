package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"platea/internal/auth"
	"platea/internal/config"
	platehttp "platea/internal/http"
	"platea/internal/realtime"
	"platea/internal/room"
	"platea/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testAPI struct {
	t       *testing.T
	handler http.Handler
	db      *gorm.DB
}

func newAPI(t *testing.T) *testAPI {
	gdb := testutil.OpenDB(t)
	h := platehttp.NewRouter(platehttp.Deps{
		Config: config.Config{},
		DB:     gdb,
		JWT:    auth.NewJWT("test-secret"),
		Hub:    realtime.NewHub(zap.NewNop()),
		Log:    zap.NewNop(),
	})
	return &testAPI{t: t, handler: h, db: gdb}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func (a *testAPI) register(name string) (token string, userID uint64) {
	a.t.Helper()
	w := a.do("POST", "/auth/register", "", map[string]string{
		"name":     name,
		"email":    name + "@example.com",
		"password": "correct-horse",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uint64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	api := newAPI(t)
	w := api.do("GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	api := newAPI(t)

	token, _ := api.register("alice")
	assert.NotEmpty(t, token)

	// Duplicate email.
	w := api.do("POST", "/auth/register", "", map[string]string{
		"name": "alice2", "email": "alice@example.com", "password": "correct-horse",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Password too short.
	w = api.do("POST", "/auth/register", "", map[string]string{
		"name": "bob", "email": "bob@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do("POST", "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "correct-horse",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do("POST", "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	api := newAPI(t)

	for _, path := range []string{"/users/profile", "/rooms/", "/recipes/mine"} {
		w := api.do("GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := api.do("GET", "/users/profile", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLikeFlow(t *testing.T) {
	api := newAPI(t)
	token, _ := api.register("alice")

	body := map[string]any{"recipeData": map[string]any{
		"strMeal": "Spaghetti", "strMealThumb": "http://img/s.jpg",
	}}
	w := api.do("POST", "/users/like/meal_52874", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Second like of the same recipe is a conflict, not a duplicate.
	w = api.do("POST", "/users/like/meal_52874", token, body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do("GET", "/users/liked-recipes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]map[string]any](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, "meal_52874", entries[0]["id"])
	assert.Equal(t, "external", entries[0]["kind"])
	assert.Equal(t, "Spaghetti", entries[0]["title"])

	// The profile carries the full wire-id sets.
	w = api.do("GET", "/users/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[map[string]any](t, w)
	assert.Equal(t, []any{"meal_52874"}, profile["likedRecipes"])
	assert.Equal(t, []any{}, profile["bookmarkedRecipes"])

	w = api.do("DELETE", "/users/like/meal_52874", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = api.do("DELETE", "/users/like/meal_52874", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRecipeEndpoints(t *testing.T) {
	api := newAPI(t)
	token, _ := api.register("alice")

	w := api.do("POST", "/recipes/", token, map[string]any{
		"title":       "Shakshuka",
		"ingredients": []string{"eggs", "tomatoes"},
		"steps":       []string{"simmer", "poach"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	id := fmt.Sprintf("%v", created["ID"])

	w = api.do("GET", "/recipes/"+id, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do("GET", "/recipes/mine", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Missing steps.
	w = api.do("POST", "/recipes/", token, map[string]any{
		"title": "Nothing", "ingredients": []string{"air"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do("GET", "/recipes/999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoomLifecycle(t *testing.T) {
	api := newAPI(t)
	alice, aliceID := api.register("alice")
	bob, bobID := api.register("bob")

	w := api.do("POST", "/rooms/", alice, map[string]string{"name": "Family Meals"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		ID uint64 `json:"ID"`
	}](t, w)
	roomPath := fmt.Sprintf("/rooms/%d", created.ID)

	// Outsiders cannot read the room.
	w = api.do("GET", roomPath+"/", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do("POST", roomPath+"/invite", alice, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	inv := decode[struct {
		Code string `json:"code"`
	}](t, w)
	require.Len(t, inv.Code, 8)

	w = api.do("POST", "/rooms/join/invite/"+inv.Code, bob, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = api.do("POST", "/rooms/join/invite/"+inv.Code, bob, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do("POST", "/rooms/join/invite/badcode1", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Meal board.
	w = api.do("POST", roomPath+"/suggestions", alice, map[string]string{
		"date": "2026-09-01", "slot": "breakfast", "dish": "Pancakes",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = api.do("POST", roomPath+"/suggestions", bob, map[string]string{
		"date": "2026-09-01", "slot": "breakfast", "dish": "Oatmeal",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do("GET", roomPath+"/suggestions?date=2026-09-01", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	board := decode[struct {
		Breakfast []struct {
			Dish string `json:"dish"`
		} `json:"breakfast"`
		Lunch []any `json:"lunch"`
	}](t, w)
	require.Len(t, board.Breakfast, 2)
	assert.Equal(t, "Pancakes", board.Breakfast[0].Dish)
	assert.Equal(t, "Oatmeal", board.Breakfast[1].Dish)
	assert.NotNil(t, board.Lunch)

	w = api.do("GET", roomPath+"/suggestions", bob, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do("POST", roomPath+"/suggestions", bob, map[string]string{
		"date": "2026-09-01", "slot": "brunch", "dish": "Eggs",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Share a recipe into the room.
	w = api.do("POST", roomPath+"/recipes", bob, map[string]any{
		"title": "Frittata", "ingredients": []string{"eggs"}, "steps": []string{"bake"},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = api.do("GET", roomPath+"/", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[struct {
		Members []struct {
			UserID uint64 `json:"user_id"`
		} `json:"members"`
		Recipes []any `json:"recipes"`
	}](t, w)
	require.Len(t, details.Members, 2)
	assert.Equal(t, aliceID, details.Members[0].UserID)
	assert.Len(t, details.Recipes, 1)

	// Only the admin removes members, never themselves.
	w = api.do("DELETE", roomPath+"/members", bob, map[string]uint64{"user_id": aliceID})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do("DELETE", roomPath+"/members", alice, map[string]uint64{"user_id": aliceID})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do("DELETE", roomPath+"/members", alice, map[string]uint64{"user_id": bobID})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do("GET", roomPath+"/", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExpiredInviteIsGone(t *testing.T) {
	api := newAPI(t)
	alice, aliceID := api.register("alice")
	bob, _ := api.register("bob")

	w := api.do("POST", "/rooms/", alice, map[string]string{"name": "Old Crew"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[struct {
		ID uint64 `json:"ID"`
	}](t, w)

	inv := room.Invite{RoomID: created.ID, Code: "EXPIRED1", CreatedBy: aliceID, ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, api.db.Create(&inv).Error)

	w = api.do("POST", "/rooms/join/invite/EXPIRED1", bob, nil)
	assert.Equal(t, http.StatusGone, w.Code)
}
