package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/HassanBassiouny/AQLLM/internal/api/http"
	"github.com/HassanBassiouny/AQLLM/internal/config"
	"github.com/HassanBassiouny/AQLLM/internal/env"
	"github.com/HassanBassiouny/AQLLM/internal/env/providers"
	"github.com/HassanBassiouny/AQLLM/internal/scheduler"
	"github.com/HassanBassiouny/AQLLM/internal/store"
)

func main() {
	// Load configuration (godotenv is applied inside Load).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Snapshot store: in-memory by default, SQLite when persistence is wanted.
	var snapStore env.Store
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		sqliteStore, err := store.NewSQLiteStore(cfg.SQLitePath, cfg.StoreMaxHistory, cfg.StoreMaxAge)
		if err != nil {
			log.Fatalf("failed to open sqlite store: %v", err)
		}
		defer sqliteStore.Close()
		snapStore = sqliteStore
	default:
		snapStore = store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}

	// Providers: the mock sensor network always runs; OpenAQ joins in when a
	// key is configured.
	provs := []env.Provider{providers.NewMockSensorProvider()}
	if cfg.OpenAQAPIKey != "" {
		provs = append(provs, providers.NewOpenAQProvider(httpClient, cfg.OpenAQAPIKey))
	}

	// Core service orchestrating providers and store.
	service := env.NewService(snapStore, provs)

	// Scheduler that periodically samples and stores data.
	sched := scheduler.New(cfg.FetchInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "aqllm",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "aqllm",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
