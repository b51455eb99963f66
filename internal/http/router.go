package http

import (
	"net/http"

	"platea/internal/auth"
	"platea/internal/catalog"
	"platea/internal/config"
	"platea/internal/http/handler"
	mw "platea/internal/http/middleware"
	"platea/internal/prefs"
	"platea/internal/realtime"
	"platea/internal/recipe"
	"platea/internal/room"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	Config  config.Config
	DB      *gorm.DB
	JWT     *auth.JWT
	Hub     *realtime.Hub
	Catalog *catalog.Client
	Uploads handler.ImageStore
	Mailer  auth.Mailer
	Log     *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(d.Config.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(d.Config.CORSAllowedOrigins, d.Config.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	prefSvc := &prefs.Service{DB: d.DB}
	recipeSvc := &recipe.Service{DB: d.DB}
	roomSvc := &room.Service{DB: d.DB, Recipes: recipeSvc}
	resetSvc := &auth.ResetService{DB: d.DB, Mailer: d.Mailer, AppBaseURL: d.Config.AppBaseURL}

	ah := &handler.AuthHandler{DB: d.DB, JWT: d.JWT, Reset: resetSvc}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)
	r.Post("/auth/forgot-password", ah.ForgotPassword)
	r.Post("/auth/reset-password", ah.ResetPassword)

	uh := &handler.UserHandler{DB: d.DB, Prefs: prefSvc}
	r.Route("/users", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Get("/profile", uh.Profile)
		r.Get("/liked-recipes", uh.ListLiked)
		r.Get("/bookmarked-recipes", uh.ListBookmarked)

		r.Post("/like/{refID}", uh.Like)
		r.Delete("/like/{refID}", uh.Unlike)
		r.Post("/bookmark/{refID}", uh.Bookmark)
		r.Delete("/bookmark/{refID}", uh.Unbookmark)
	})

	rh := &handler.RecipeHandler{Svc: recipeSvc, Prefs: prefSvc}
	r.Route("/recipes", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/", rh.Create)
		r.Get("/mine", rh.Mine)
		r.Get("/{id}", rh.Get)
	})

	ch := &handler.CatalogHandler{Client: d.Catalog}
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/search", ch.Search)
		r.Get("/filter", ch.Filter)
		r.Get("/random", ch.Random)
		r.Get("/meals/{id}", ch.MealByID)
		r.Get("/drinks/search", ch.SearchDrinks)
		r.Get("/drinks/{id}", ch.DrinkByID)
	})

	roomH := &handler.RoomHandler{Svc: roomSvc, Hub: d.Hub}
	r.Route("/rooms", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Post("/", roomH.Create)
		r.Get("/", roomH.List)
		r.Post("/join/invite/{code}", roomH.JoinViaInvite)
		r.Post("/join/{roomID}", roomH.Join)

		r.Route("/{roomID}", func(r chi.Router) {
			r.Get("/", roomH.Get)
			r.Post("/invite", roomH.CreateInvite)
			r.Get("/invites", roomH.ListInvites)
			r.Delete("/members", roomH.RemoveMember)
			r.Post("/recipes", roomH.ShareRecipe)
			r.Get("/suggestions", roomH.ListSuggestions)
			r.Post("/suggestions", roomH.AddSuggestion)
		})
	})

	up := &handler.UploadHandler{Store: d.Uploads}
	r.With(auth.RequireAuth(d.JWT)).Post("/uploads", up.Upload)

	ws := &handler.WSHandler{Hub: d.Hub, Log: d.Log}
	r.With(auth.RequireAuth(d.JWT)).Get("/ws", ws.Serve)

	return r
}
