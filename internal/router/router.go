package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codexhub/img-uploader/internal/middleware/metrics"
	"github.com/codexhub/img-uploader/internal/setup"
)

// New creates and configures the chi router with all the routes.
func New(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)

	// CORS for browser frontends; preflight requests are answered generically
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler

	r.Get("/", h.Root)
	r.Get("/healthz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Protected API; unauthenticated callers never reach the handlers
	r.Route("/api/images", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.NeedAuth())
		r.Post("/upload", h.UploadImage)
		r.Get("/mine", h.ListMine)
		r.Delete("/{id}", h.DeleteImage)
	})

	// Uploaded blobs are served statically and unauthenticated
	fileServer := http.FileServer(http.Dir(deps.Blobs.Root()))
	r.Handle("/uploads/*", http.StripPrefix("/uploads", noDirListing(fileServer)))

	return r
}

// noDirListing answers directory requests with 404 instead of an index.
// Stored filenames must stay unguessable, so they are never enumerable.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
