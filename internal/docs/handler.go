package docs

import (
	"net/http"

	"teamboard/internal/httputil"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const SpecPath = "/docs/openapi.json"

type Handler struct {
	doc *openapi3.T
}

func NewHandler(doc *openapi3.T) *Handler {
	return &Handler{doc: doc}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get(SpecPath, h.Spec)
	router.Get("/swagger-ui", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger-ui/index.html", http.StatusMovedPermanently)
	})
	router.Get("/swagger-ui/*", httpSwagger.Handler(httpSwagger.URL(SpecPath)))
}

func (h *Handler) Spec(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, h.doc)
}
