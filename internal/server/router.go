package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the HTTP surface: four endpoint groups plus a health
// probe. CORS is open because the Mini App is served from Telegram's
// web view, not from this origin.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)
	r.Use(h.ipRateLimit)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Post("/auth", h.Login)
	r.Get("/auth", h.GetUser)

	r.Post("/rooms", h.PostRooms)
	r.Get("/rooms", h.GetRooms)

	r.Post("/chat", h.PostChat)
	r.Get("/chat", h.GetChat)

	r.Post("/game", h.PostGame)
	r.Get("/game", h.GetGame)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
