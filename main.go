package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/wanderly/wanderly-api/app/db"
	appLogger "github.com/wanderly/wanderly-api/app/logger"
	"github.com/wanderly/wanderly-api/app/observability/metrics"
	"github.com/wanderly/wanderly-api/app/tracer"
	"github.com/wanderly/wanderly-api/config"
	"github.com/wanderly/wanderly-api/internal/api/chat"
	"github.com/wanderly/wanderly-api/internal/api/enrichment"
	"github.com/wanderly/wanderly-api/internal/api/extraction"
	"github.com/wanderly/wanderly-api/internal/api/intent"
	"github.com/wanderly/wanderly-api/internal/api/modelclient"
	"github.com/wanderly/wanderly-api/internal/api/session"
	api "github.com/wanderly/wanderly-api/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	// --- Logger Setup ---
	logger := setupLogger()
	slog.SetDefault(logger)

	// --- Application Context & Shutdown ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	// --- Database Setup (optional) ---
	// Without Postgres configured, the append-only chat log lives in memory.
	var chatRepo chat.Repository = chat.NewInMemoryRepository()
	if cfg.Repositories.Postgres.Host != "" {
		dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
		if err != nil {
			logger.Error("Failed to generate database config", slog.Any("error", err))
			os.Exit(1)
		}
		pool, err := database.Init(dbConfig.ConnectionURL, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		if !database.WaitForDB(ctx, pool, logger) {
			logger.Error("Database not ready after waiting, exiting.")
			os.Exit(1)
		}
		if err := database.Bootstrap(ctx, pool, logger); err != nil {
			logger.Error("Failed to bootstrap database schema", slog.Any("error", err))
			os.Exit(1)
		}
		chatRepo = chat.NewPostgresRepository(pool, metrics.Get(), logger)
	} else {
		logger.Info("No Postgres host configured, using in-memory chat log")
	}

	// --- Dependency Injection ---
	store := session.NewInMemoryStore(cfg.Chat.HistoryWindow, logger)
	intents := intent.NewExtractor(logger)

	var liveModel modelclient.Client
	if gemini, err := modelclient.NewGeminiClient(ctx, cfg.Chat.Model); err != nil {
		logger.Warn("Live model unavailable, canned fallback only", slog.Any("error", err))
	} else {
		liveModel = gemini
	}
	model := modelclient.NewService(liveModel, metrics.Get(), logger)

	httpClient := &http.Client{Timeout: 10 * time.Second}
	geocoder := enrichment.NewHTTPGeocoder(cfg.Providers.GeocodeURL, httpClient, logger)
	weather := enrichment.NewHTTPWeatherProvider(cfg.Providers.WeatherURL, httpClient, geocoder)
	engine := extraction.NewEngine(geocoder, weather, metrics.Get(), logger)

	var flights enrichment.FlightProvider = enrichment.NewSyntheticFlightProvider()
	var hotels enrichment.HotelProvider = enrichment.NewSyntheticHotelProvider()
	if apiKey := os.Getenv("TRAVEL_API_KEY"); apiKey != "" && cfg.Providers.FlightURL != "" {
		flights = enrichment.NewHTTPFlightProvider(cfg.Providers.FlightURL, apiKey, httpClient)
		hotels = enrichment.NewHTTPHotelProvider(cfg.Providers.HotelURL, apiKey, httpClient)
	} else {
		logger.Info("No travel API credentials, flight and hotel offers are synthetic")
	}
	enricher := enrichment.NewTripEnricher(enrichment.NewStaticCodeResolver(), flights, hotels, logger)

	chatService := chat.NewServiceImpl(store, intents, model, engine, enricher, chatRepo, metrics.Get(), logger)
	chatHandler := chat.NewHandlerImpl(chatService, logger)

	// --- Router Setup ---
	routerConfig := &api.Config{
		ChatHandler: chatHandler,
	}
	mainRouter := api.SetupRouter(routerConfig)

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "Root endpoint hit")
		w.Write([]byte("Welcome to the Wanderly API"))
	})

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	// --- Start Server Goroutine ---
	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	// --- Wait for Shutdown Signal ---
	<-ctx.Done()

	// --- Graceful Shutdown ---
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
