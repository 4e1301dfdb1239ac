package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"summarization-hub/internal/handlers"
	"summarization-hub/internal/middleware"
	"summarization-hub/internal/websocket"
)

type Options struct {
	CORSAllowedOrigins    []string
	GenerateRatePerMinute int
}

func New(
	logger *zap.Logger,
	jwtAuth *middleware.JWTAuth,
	contentHandler *handlers.ContentHandler,
	generateHandler *handlers.GenerateHandler,
	artifactHandler *handlers.ArtifactHandler,
	wsHub *websocket.Hub,
	opts Options,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(opts.CORSAllowedOrigins))

	// Generation calls the model, so it gets a per-IP budget
	generateLimiter := middleware.RateLimit(opts.GenerateRatePerMinute, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtAuth.Middleware)

		// ──── Content Routes ────
		r.Route("/content", func(r chi.Router) {
			r.Post("/text", contentHandler.Text)
			r.Post("/pdf", contentHandler.PDF)
			r.With(generateLimiter).Post("/youtube", contentHandler.YouTube)
		})

		// ──── Generation Routes ────
		r.Group(func(r chi.Router) {
			r.Use(generateLimiter)
			r.Post("/summaries/generate", generateHandler.Summary)
			r.Post("/quizzes/generate", generateHandler.Quiz)
			r.Post("/flashcards/generate", generateHandler.Flashcards)
		})

		// ──── Artifact Routes ────
		r.Route("/artifacts", func(r chi.Router) {
			r.Get("/", artifactHandler.List)
			r.Get("/{id}", artifactHandler.Get)
			r.Get("/{id}/download", artifactHandler.Download)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
