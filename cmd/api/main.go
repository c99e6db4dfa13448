package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-whisperer/internal/analyzer"
	httptransport "github.com/spec-kit/ticket-whisperer/internal/api/http"
	"github.com/spec-kit/ticket-whisperer/internal/api/http/handlers"
	"github.com/spec-kit/ticket-whisperer/internal/config"
	"github.com/spec-kit/ticket-whisperer/internal/events"
	"github.com/spec-kit/ticket-whisperer/internal/observability"
	"github.com/spec-kit/ticket-whisperer/internal/persistence"
	"github.com/spec-kit/ticket-whisperer/internal/service"
	"github.com/spec-kit/ticket-whisperer/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	descriptionAnalyzer, err := analyzer.New(cfg.Analyzer.IdentifierPattern)
	if err != nil {
		logger.Fatal("failed to build analyzer", zap.Error(err))
	}

	ticketStore := store.NewTicketStore()
	if cfg.Store.SeedSampleData {
		if err := store.SeedSampleData(ticketStore); err != nil {
			logger.Fatal("failed to seed sample data", zap.Error(err))
		}
		logger.Info("seeded sample tickets", zap.Int("count", ticketStore.Len()))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, redis, cfg.Redis)
	notificationService.RegisterHandlers()

	ticketService := service.NewTicketService(service.Dependencies{
		Store:      ticketStore,
		Analyzer:   descriptionAnalyzer,
		Dispatcher: dispatcher,
	})

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis),
		Tickets:   handlers.NewTicketsHandler(ticketService),
		Analytics: handlers.NewAnalyticsHandler(ticketService),
		Triage:    handlers.NewTriageHandler(ticketService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
