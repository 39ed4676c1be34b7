package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/wanderly/wanderly-api/internal/api/chat"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ChatHandler chat.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Heartbeat/Health check endpoint
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			// Model turns are expensive; throttle per client IP.
			r.Use(httprate.LimitByIP(30, 1*time.Minute))
			r.Post("/chat", cfg.ChatHandler.ProcessTurn)
		})

		r.Get("/chat/history", cfg.ChatHandler.GetHistory)
		r.Delete("/chat/history", cfg.ChatHandler.ClearHistory)

		r.Post("/itineraries", cfg.ChatHandler.SaveItinerary)
		r.Get("/itineraries", cfg.ChatHandler.ListItineraries)
	})

	return r
}
