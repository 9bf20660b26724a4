package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/spirit-profile-service/internal/cache"
	"github.com/SAP-F-2025/spirit-profile-service/internal/catalog"
	"github.com/SAP-F-2025/spirit-profile-service/internal/config"
	"github.com/SAP-F-2025/spirit-profile-service/internal/handlers"
	"github.com/SAP-F-2025/spirit-profile-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/spirit-profile-service/internal/scoring"
	"github.com/SAP-F-2025/spirit-profile-service/internal/services"
	"github.com/SAP-F-2025/spirit-profile-service/internal/utils"
	"github.com/SAP-F-2025/spirit-profile-service/internal/validator"
	"github.com/SAP-F-2025/spirit-profile-service/pkg"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)
	zapLogger, err := utils.NewZapLogger(cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to build zap logger: %w", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog
	traits := catalog.DefaultTraitCatalog()
	bank := catalog.DefaultQuestionBank()
	v := validator.NewWithTraits(traits)
	if err := v.Bank().ValidateBank(bank); err != nil {
		return fmt.Errorf("question bank failed validation: %w", err)
	}

	// Storage
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if err := pkg.Migrate(db); err != nil {
		return err
	}
	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	// Events
	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	// Services
	cacheService := cache.NewRedisCache(redisClient, zapLogger)
	spiritService := services.NewSpiritService(
		postgres.NewSpiritProfilePostgreSQL(db),
		scoring.NewEngine(traits, bank),
		cacheService,
		services.NewProfileEventService(publisher, slogger),
		v,
		slogger,
		cfg.StatsCacheTTL,
	)
	quizService := services.NewQuizService(cache.NewSessionStore(cacheService, cfg.SessionTTL), bank, spiritService, v, slogger)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestContext(), utils.LoggerMiddleware(logger, "/health"))
	handlers.NewHandlerManager(spiritService, quizService, traits, bank, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
