package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the full API surface. The health handler is
// mounted outside /api so load balancers can probe it without CORS.
func NewRouter(
	emails *EmailHandler,
	templates *TemplateHandler,
	attachments *AttachmentHandler,
	health http.Handler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(CORS(DefaultCORSConfig))

	r.Method(http.MethodGet, "/health", health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/emails", func(r chi.Router) {
			r.Post("/", emails.Send)
			r.Get("/", emails.List)
			r.Get("/{id}", emails.Get)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Post("/", templates.Create)
			r.Get("/", templates.List)
			r.Get("/{id}", templates.Get)
			r.Put("/{id}", templates.Update)
			r.Delete("/{id}", templates.Delete)
		})

		r.Get("/attachments/{id}", attachments.Download)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})

	return r
}
