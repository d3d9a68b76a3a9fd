package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cantorix/aide/api"
	"github.com/cantorix/aide/config"
	"github.com/cantorix/aide/llm"
	"github.com/cantorix/aide/policy"
	"github.com/cantorix/aide/service"
	"github.com/cantorix/aide/session"
	"github.com/cantorix/aide/store"
	"github.com/cantorix/aide/tools"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting aide backend...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Model: %s", cfg.OpenRouterModel)

	// Initialize store. An empty DATABASE_URL disables persistence; history
	// then lives only in the session cache and memory tools report an error.
	var db store.Store
	if cfg.DatabaseURL != "" {
		sqlite, err := store.NewSQLiteStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		defer sqlite.Close()
		db = sqlite
		log.Printf("Database: %s", cfg.DatabaseURL)
	} else {
		log.Printf("WARN: no database configured, memory features disabled")
	}

	// Initialize LLM client
	llmClient := llm.NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.LLMTimeout)

	// Initialize tool adapters and catalog
	serper := tools.NewSerperClient(cfg.SerperBaseURL, cfg.SerperAPIKey, cfg.ToolTimeout)
	gnews := tools.NewGNewsClient(cfg.GNewsBaseURL, cfg.GNewsAPIKey, cfg.ToolTimeout)
	fetcher := tools.NewWebpageFetcher(cfg.ToolTimeout)
	memory := tools.NewMemoryTools(db)
	registry := tools.NewCatalog(serper, gnews, fetcher, memory)
	log.Printf("Loaded %d tools", registry.Count())

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize session cache
	cache := session.NewCache(cfg.SessionCacheSize)

	// Initialize service
	svc := service.New(db, llmClient, registry, policyEngine, cache, cfg)

	// Initialize handler
	h := api.NewHandler(svc)

	// Create Echo server
	server := echo.New()
	server.HideBanner = true

	// Middleware
	server.Use(middleware.Logger())
	server.Use(middleware.Recover())
	server.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(server)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Stopped")
}
