package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/jeuanimo/expensegate/internal/adapter/backend"
	"github.com/jeuanimo/expensegate/internal/adapter/handler"
	"github.com/jeuanimo/expensegate/internal/adapter/middleware"
	"github.com/jeuanimo/expensegate/internal/adapter/storage"
	"github.com/jeuanimo/expensegate/internal/core/config"
	"github.com/jeuanimo/expensegate/internal/core/proxy"
	"github.com/jeuanimo/expensegate/internal/core/session"
	"github.com/jeuanimo/expensegate/internal/core/worker"
)

func main() {
	// 1. Load Config
	cfg := config.LoadConfig()

	// 2. Setup Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 3. Pick the session store. Postgres when configured, otherwise
	// in-memory — the gateway must come up with zero dependencies.
	var store session.Store
	if cfg.DatabaseURL != "" {
		dbPool, err := storage.ConnectDB(cfg.DatabaseURL)
		if err != nil {
			slog.Error("❌ Database connection failed", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		store = storage.NewSessionRepository(dbPool)
		slog.Info("✅ Using Postgres session store")
	} else {
		store = session.NewMemoryStore()
		slog.Warn("No DATABASE_URL set, sessions are in-memory and will not survive restarts")
	}

	// 4. Build the core
	sessions := session.NewManager(cfg.SessionTTL)
	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	gateway := proxy.NewService(client, sessions)

	authHandler := &handler.AuthHandler{Proxy: gateway, Store: store}
	expenseHandler := &handler.ExpenseHandler{Proxy: gateway}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	// 6. Routes
	api := app.Group("/v1")

	// Public
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/logout", authHandler.Logout)

	// Protected
	private := api.Use(middleware.Protected(store, sessions))
	private.Get("/expenses", expenseHandler.List)
	private.Post("/expenses", expenseHandler.Create)
	private.Get("/expenses/:id", expenseHandler.GetOne)
	private.Put("/expenses/:id", expenseHandler.Update)
	private.Delete("/expenses/:id", expenseHandler.Delete)

	// 7. Start the session reaper
	worker.StartSessionReaper(store, 5*time.Minute)

	// Graceful shutdown: finish in-flight requests before exiting.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("🚀 Gateway starting", "env", cfg.Env, "port", cfg.Port, "backend", cfg.BackendURL)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server forced to shutdown", "error", err)
		}
	}()

	<-stop
	slog.Info("🛑 Shutting down gateway...")

	if err := app.Shutdown(); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	slog.Info("👋 Gateway exited successfully")
}
