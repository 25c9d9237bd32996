package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pbfed/ranking-engine/handlers"
	"github.com/pbfed/ranking-engine/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	rankingsHandler *handlers.RankingsHandler,
	periodsHandler *handlers.PeriodsHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/rankings", func(r chi.Router) {
		r.Get("/leaderboard", rankingsHandler.LeaderboardHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireRole(middleware.RoleAdmin))
			r.Post("/recalculate", rankingsHandler.RecalculateHandler)
		})
	})

	router.Route("/players/{playerID}", func(r chi.Router) {
		r.Get("/ranking", rankingsHandler.PlayerRankingHandler)
		r.Get("/points-history", rankingsHandler.PlayerPointsHistoryHandler)
	})

	router.Route("/periods", func(r chi.Router) {
		r.Get("/", periodsHandler.ListHandler)
		r.Get("/active", periodsHandler.ActiveHandler)
		r.Get("/{periodID}", periodsHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireRole(middleware.RoleAdmin))
			r.Post("/{periodID}/close", periodsHandler.CloseHandler)
		})
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/", matchHandler.GetByIDHandler)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireRole(middleware.RoleAdmin, middleware.RoleOrganizer))
			r.Put("/result", matchHandler.RecordResultHandler)
		})
	})

	router.Get("/ws/standings", webSocketHandler.ServeStandings)
}
