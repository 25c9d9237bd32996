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

	"github.com/go-chi/chi/v5"
	"github.com/pbfed/ranking-engine/config"
	"github.com/pbfed/ranking-engine/db"
	"github.com/pbfed/ranking-engine/events"
	"github.com/pbfed/ranking-engine/handlers"
	"github.com/pbfed/ranking-engine/live"
	"github.com/pbfed/ranking-engine/middleware"
	"github.com/pbfed/ranking-engine/repositories"
	api "github.com/pbfed/ranking-engine/routes"
	"github.com/pbfed/ranking-engine/services"

	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Websocket hub for live standings updates.
	wsHub := live.NewHub(logger)
	go wsHub.Run()

	// Repositories.
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	periodRepo := repositories.NewPostgresPeriodRepository(dbConn)
	rankingRepo := repositories.NewPostgresPlayerRankingRepository(dbConn)
	historyRepo := repositories.NewPostgresPointsHistoryRepository(dbConn)

	// Event bus decouples ranking recomputation from match completion.
	bus := events.NewBus(logger)
	defer func() {
		if err := bus.Close(); err != nil {
			logger.Error("failed to close event bus", slog.Any("error", err))
		}
	}()

	// Services.
	periodService := services.NewPeriodService(periodRepo)
	finishResolver := services.NewFinishResolver(matchRepo, registrationRepo)
	aggregatorService := services.NewAggregatorService(
		repositories.NewTxRunner(dbConn),
		periodRepo,
		tournamentRepo,
		registrationRepo,
		historyRepo,
		rankingRepo,
		finishResolver,
	)
	standingsService := services.NewStandingsService(rankingRepo)
	recalcService := services.NewRecalcService(
		periodService,
		aggregatorService,
		standingsService,
		playerRepo,
		matchRepo,
		tournamentRepo,
		live.NewStandingsBroadcaster(wsHub),
		logger,
		cfg.RecalcWorkers,
	)
	queryService := services.NewRankingsQueryService(rankingRepo, historyRepo, playerRepo)
	matchService := services.NewMatchService(matchRepo, bus, logger)
	logger.Info("services initialized")

	// Event-driven partial recalculation. Handler failures are logged by
	// the orchestrator and never reach the publishing request.
	busCtx, stopBus := context.WithCancel(context.Background())
	defer stopBus()
	err = bus.SubscribeMatchCompleted(busCtx, func(ctx context.Context, event events.MatchCompletedEvent) {
		if err := recalcService.HandleMatchCompleted(ctx, event.MatchID); err != nil {
			logger.Error("match completed handler failed",
				slog.Int("match_id", event.MatchID),
				slog.Any("error", err))
		}
	})
	if err != nil {
		logger.Error("failed to subscribe to match completed events", slog.Any("error", err))
		os.Exit(1)
	}

	// Periodic full recalculation picks up anything event dispatch missed.
	go func() {
		ticker := time.NewTicker(cfg.RecalcInterval)
		defer ticker.Stop()
		logger.Info("recalculation scheduler started", slog.Duration("interval", cfg.RecalcInterval))

		for range ticker.C {
			if _, err := recalcService.RecalculateAll(context.Background(), nil); err != nil {
				logger.Error("scheduled recalculation failed", slog.Any("error", err))
			}
		}
	}()

	// HTTP layer.
	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)
	rankingsHandler := handlers.NewRankingsHandler(recalcService, queryService, periodService)
	periodsHandler := handlers.NewPeriodsHandler(periodService)
	matchHandler := handlers.NewMatchHandler(matchService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, auth, rankingsHandler, periodsHandler, matchHandler, webSocketHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
	}
	logger.Info("application exited")
}
