package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sokoclick/internal/api/handlers"
	"sokoclick/internal/config"
	"sokoclick/internal/domain"
	"sokoclick/internal/infrastructure/memory"
	ws "sokoclick/internal/infrastructure/websocket"
	"sokoclick/internal/seed"
	"sokoclick/internal/services"
	"sokoclick/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(cfg.Log.Level)
	log.Info("Starting slot service", "slots", cfg.Slots.Count, "port", cfg.Server.Port)

	clock := domain.SystemClock{}

	// In-memory fixtures and store
	repo := memory.NewSlotRepository(cfg.Slots.Count, clock)
	catalog := memory.NewProductCatalog()
	directory := memory.NewPartyDirectory()

	pricing := services.NewTieredIncrementPolicy()

	if cfg.Seed.Enabled {
		generator := seed.NewGenerator(cfg.Seed.RandSeed, clock, pricing)
		if err := generator.Populate(context.Background(), repo, catalog, directory, cfg.Slots.Count); err != nil {
			log.Error("Failed to seed demo data", "error", err)
			os.Exit(1)
		}
		log.Info("Seeded demo data", "slots", cfg.Slots.Count, "rand_seed", cfg.Seed.RandSeed)
	}

	// Realtime fan-out
	connManager := ws.NewConnectionManager(log)
	notifier := ws.NewNotifier(connManager)

	lifecycle := services.NewSlotLifecycle(repo, catalog, directory, clock, pricing, notifier, log)
	sweeper := services.NewSlotSweeper(lifecycle, clock, cfg.Sweeper.Interval, log)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}","status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}","bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			echo.GET, echo.HEAD, echo.PUT, echo.PATCH,
			echo.POST, echo.DELETE, echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
	}))

	// Routes
	slotHandler := handlers.NewSlotHandler(lifecycle, log)
	api := e.Group("/api/v1")
	slotHandler.Register(api)

	wsHandler := ws.NewHandler(repo, connManager, log)
	e.GET("/ws/slots/:id", wsHandler.HandleConnection)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "slot-service",
			"timestamp": clock.Now().Format(time.RFC3339),
		})
	})

	// Background sweeper for clock-implied transitions
	if err := sweeper.Start(context.Background()); err != nil {
		log.Error("Failed to start sweeper", "error", err)
		os.Exit(1)
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down slot service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sweeper.Stop(); err != nil {
		log.Error("Failed to stop sweeper", "error", err)
	}
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Slot service stopped")
}
