package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"summarization-hub/internal/config"
	"summarization-hub/internal/database"
	"summarization-hub/internal/handlers"
	"summarization-hub/internal/logger"
	"summarization-hub/internal/middleware"
	"summarization-hub/internal/repository"
	"summarization-hub/internal/router"
	"summarization-hub/internal/services"
	"summarization-hub/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting summarization hub", zap.String("env", cfg.Env), zap.String("llm_provider", cfg.LLMProvider))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ──── Step 2: Optional PostgreSQL history ────
	var history services.ArtifactHistory
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			zlog.Fatal("PostgreSQL connection failed", zap.Error(err))
		}
		defer pool.Close()

		if err := database.RunMigrations(cfg.DatabaseURL, zlog); err != nil {
			zlog.Fatal("database migration failed", zap.Error(err))
		}
		history = repository.NewHistoryRepo(pool)
		zlog.Info("PostgreSQL connected, history enabled")
	} else {
		zlog.Info("DATABASE_URL not set, history disabled")
	}

	// ──── Step 3: Artifact store, Redis when configured ────
	var store services.ArtifactStore
	var wsHub *websocket.Hub
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			zlog.Fatal("Redis connection failed", zap.Error(err))
		}
		defer redisClient.Close()

		store = repository.NewRedisArtifactStore(redisClient, cfg.ArtifactTTL)
		wsHub = websocket.NewHub(redisClient, zlog)
		zlog.Info("Redis connected")
	} else {
		store = repository.NewMemoryArtifactStore(cfg.ArtifactCacheSize, cfg.ArtifactTTL)
		wsHub = websocket.NewHub(nil, zlog)
		zlog.Info("REDIS_URL not set, using in-process artifact cache")
	}

	// ──── Step 4: Language model ────
	generator, closeGenerator, err := newGenerator(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("language model client initialization failed", zap.Error(err))
	}
	defer closeGenerator()

	// ──── Initialize Services ────
	youtube := services.NewYouTubeService(cfg.YouTubeHTTPTimeout)
	pipeline := services.NewPipeline(
		services.NewPDFExtractor(),
		services.NewVideoResolver(youtube, youtube, generator, zlog),
		generator,
		zlog,
	)
	artifactService := services.NewArtifactService(pipeline, store, history, zlog)
	zlog.Info("artifact service ready", zap.Bool("history", artifactService.HistoryEnabled()))

	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	if !cfg.AuthEnabled() {
		zlog.Warn("JWT_SECRET not set, all requests run as the anonymous subject")
	}

	// ──── Initialize Handlers ────
	contentHandler := handlers.NewContentHandler(pipeline, wsHub, cfg.MaxUploadBytes(), zlog)
	generateHandler := handlers.NewGenerateHandler(artifactService, wsHub)
	artifactHandler := handlers.NewArtifactHandler(artifactService)

	// ──── Step 5: Start HTTP Server ────
	r := router.New(
		zlog,
		jwtAuth,
		contentHandler,
		generateHandler,
		artifactHandler,
		wsHub,
		router.Options{
			CORSAllowedOrigins:    cfg.CORSAllowedOrigins,
			GenerateRatePerMinute: cfg.GenerateRatePerMinute,
		},
	)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// generation and transcript synthesis can take minutes
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		zlog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	zlog.Info("summarization hub ready",
		zap.String("api", fmt.Sprintf("http://localhost:%s/api/v1", cfg.Port)),
		zap.String("ws", fmt.Sprintf("ws://localhost:%s/api/v1/ws", cfg.Port)),
	)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		zlog.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}

func newGenerator(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (services.TextGenerator, func(), error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		g := services.NewOpenAIGenerator(services.OpenAIConfig{
			APIKey:         cfg.OpenAIAPIKey,
			Model:          cfg.OpenAIModel,
			ConcurrentReqs: cfg.GeminiConcurrentReqs,
			BaseURL:        cfg.OpenAIBaseURL,
		})
		zlog.Info("OpenAI client initialized", zap.String("model", cfg.OpenAIModel))
		return g, func() {}, nil
	default:
		g, err := services.NewGeminiGenerator(ctx, services.GeminiConfig{
			APIKey:         cfg.GeminiAPIKey,
			Model:          cfg.GeminiModel,
			ConcurrentReqs: cfg.GeminiConcurrentReqs,
		}, zlog)
		if err != nil {
			return nil, nil, err
		}
		zlog.Info("Gemini client initialized", zap.String("model", cfg.GeminiModel))
		return g, func() { g.Close() }, nil
	}
}
