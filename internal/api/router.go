package api

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rflorenc/resource-console/internal/console"
	"github.com/rflorenc/resource-console/internal/logging"
	"github.com/rflorenc/resource-console/internal/models"
)

// Server holds shared state for all API handlers.
type Server struct {
	Sessions    *SessionStore
	Registry    *models.Registry
	NewConsole  func() *console.Console // builds a console for a new operator session
	DefaultKind string
	Logger      *slog.Logger
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.Nop()
	}
	return s.Logger
}

// NewRouter builds the chi router with all API routes and static file serving.
// webFS may be nil when no frontend is bundled.
func NewRouter(s *Server, webFS fs.FS) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/kinds", s.ListKinds)

		// Operator sessions
		r.Post("/sessions", s.CreateSession)
		r.Get("/sessions", s.ListSessions)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Put("/kind", s.SelectKind)
			r.Post("/refresh", s.RefreshSession)

			// Edit session
			r.Post("/form", s.OpenForm)
			r.Patch("/form", s.UpdateForm)
			r.Delete("/form", s.CancelForm)
			r.Post("/form/submit", s.SubmitForm)

			r.Delete("/records/{rid}", s.DeleteRecord)
			r.Delete("/notification", s.DismissNotification)
		})
	})

	// WebSocket (outside /api to avoid JSON content-type assumptions)
	r.Get("/ws/sessions/{id}/state", s.StreamState)

	if webFS == nil {
		return r
	}

	// Serve embedded frontend (catch-all)
	r.Get("/*", func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path
		if path == "/" {
			path = "/index.html"
		}

		f, err := webFS.Open(path[1:])
		if err == nil {
			f.Close()
			http.ServeFileFS(w, req, webFS, path[1:])
			return
		}

		// Unknown paths fall back to the console page
		http.ServeFileFS(w, req, webFS, "index.html")
	})

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
