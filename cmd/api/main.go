package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jwebster45206/nature42/internal/config"
	"github.com/jwebster45206/nature42/internal/handlers"
	"github.com/jwebster45206/nature42/internal/logger"
	"github.com/jwebster45206/nature42/internal/middleware"
	"github.com/jwebster45206/nature42/internal/services"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg)

	log.Info("Starting Nature42 API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var llmService services.LLMService
	switch strings.ToLower(cfg.LLMProvider) {
	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			log.Error("Anthropic API key is required when using anthropic provider")
			os.Exit(1)
		}
		llmService = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log)
		log.Info("Using Anthropic LLM provider")
	case config.ProviderOllama:
		llmService = services.NewOllamaService(cfg.OllamaURL, cfg.ModelName, log)
		log.Info("Using Ollama LLM provider", "url", cfg.OllamaURL)
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{config.ProviderAnthropic, config.ProviderOllama})
		os.Exit(1)
	}

	redisService := services.NewRedisService(cfg.RedisURL, log)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer redisCancel()

	if err := redisService.WaitForConnection(redisCtx); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established successfully")

	// Initialize the model on startup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := llmService.InitModel(ctx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	parser := services.NewIntentParser(llmService, log)
	narrator := services.NewNarrator(llmService, log)
	shareStore := services.NewShareStore(redisService, log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(redisService, log)
	mux.Handle("/health", healthHandler)

	commandHandler := handlers.NewCommandHandler(parser, narrator, log)
	mux.Handle("/v1/command", commandHandler)

	gameStateHandler := handlers.NewGameStateHandler(log)
	mux.Handle("/v1/state", gameStateHandler)
	mux.Handle("/v1/state/", gameStateHandler)

	shareHandler := handlers.NewShareHandler(shareStore, cfg.BaseURL, log)
	mux.Handle("/v1/share", shareHandler)
	mux.Handle("/v1/share/", shareHandler)

	handler := middleware.Logger(mux, log)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout removed to enable streaming - streaming endpoints handle their own timeouts
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := redisService.Close(); err != nil {
		log.Error("Error closing Redis connection", "error", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
