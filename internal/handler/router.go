package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/postboard/backend/internal/handler/events"
	"github.com/postboard/backend/internal/handler/post"
	middlewarePkg "github.com/postboard/backend/internal/middleware"
	"github.com/postboard/backend/internal/service/feed"
	postservice "github.com/postboard/backend/internal/service/post"
	"github.com/postboard/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(posts *postservice.Service, hub *feed.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	// API clients get JSON error bodies for unmatched routes too.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Create handlers
	postHandler := post.New(posts)
	eventsHandler := events.New(hub)

	r.Route("/api", func(api chi.Router) {
		postHandler.RegisterRoutes(api)
		eventsHandler.RegisterRoutes(api)
	})

	return r
}
