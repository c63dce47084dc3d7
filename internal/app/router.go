package app

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"teamboard/internal/docs"
	"teamboard/internal/health"
	"teamboard/internal/middleware"
	"teamboard/internal/project"
	"teamboard/internal/user"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Routes groups the handlers mounted on the HTTP router.
type Routes struct {
	Health   *health.Handler
	Projects *project.Handler
	Users    *user.Handler
	Docs     *docs.Handler
}

// NewRouter mounts every handler plus the static assets found under
// staticDir/assets.
func NewRouter(routes Routes, staticDir string, corsOrigins []string, logger *slog.Logger) chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.CORS(corsOrigins))

	routes.Health.RegisterRoutes(router)
	routes.Projects.RegisterRoutes(router)
	routes.Users.RegisterRoutes(router)
	routes.Docs.RegisterRoutes(router)

	assets := http.FileServer(http.Dir(filepath.Join(staticDir, "assets")))
	router.Handle("/assets/*", http.StripPrefix("/assets/", assets))

	return router
}
