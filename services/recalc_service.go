package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pbfed/ranking-engine/repositories"
	"golang.org/x/sync/errgroup"
)

// StandingsNotifier is told after a scope has been re-ranked, so live
// consumers (the websocket hub) can refresh.
type StandingsNotifier interface {
	StandingsUpdated(periodID, playersRanked int)
}

// PlayerError records one player whose aggregation failed without aborting
// the batch.
type PlayerError struct {
	PlayerID int    `json:"player_id"`
	Error    string `json:"error"`
}

type RecalcResult struct {
	PeriodID         int           `json:"period_id"`
	PlayersProcessed int           `json:"players_processed"`
	RankingsUpdated  int           `json:"rankings_updated"`
	Errors           []PlayerError `json:"errors"`
	CompletedAt      time.Time     `json:"completed_at"`
}

type RecalcService interface {
	// RecalculateAll rebuilds every candidate player's points for the
	// active period (creating the period if needed), then assigns
	// positions. Per-player failures are collected, not fatal; only a
	// cancelled context or a ranking failure aborts.
	RecalculateAll(ctx context.Context, state *string) (*RecalcResult, error)
	// HandleMatchCompleted re-aggregates just the players of one completed
	// match and re-ranks the tournament's state scope. No-op for
	// ranking-ineligible tournaments or when no period is active.
	HandleMatchCompleted(ctx context.Context, matchID int) error
}

type recalcService struct {
	periods        PeriodService
	aggregator     AggregatorService
	standings      StandingsService
	playerRepo     repositories.PlayerRepository
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	notifier       StandingsNotifier
	logger         *slog.Logger
	workers        int
}

func NewRecalcService(
	periods PeriodService,
	aggregator AggregatorService,
	standings StandingsService,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	notifier StandingsNotifier,
	logger *slog.Logger,
	workers int,
) RecalcService {
	if workers < 1 {
		workers = 1
	}
	return &recalcService{
		periods:        periods,
		aggregator:     aggregator,
		standings:      standings,
		playerRepo:     playerRepo,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		notifier:       notifier,
		logger:         logger,
		workers:        workers,
	}
}

func (s *recalcService) RecalculateAll(ctx context.Context, state *string) (*RecalcResult, error) {
	period, err := s.periods.GetOrCreateActivePeriod(ctx)
	if err != nil {
		return nil, err
	}

	playerIDs, err := s.playerRepo.ListIDsWithRankedResults(ctx, period.StartDate, period.EndDate, state)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for recalculation: %w", err)
	}

	result := &RecalcResult{
		PeriodID: period.ID,
		Errors:   make([]PlayerError, 0),
	}

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, playerID := range playerIDs {
		// Cooperative cancellation between players: stop scheduling work
		// once the batch context is gone.
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if _, aggErr := s.aggregator.AggregatePlayer(gCtx, playerID, period.ID); aggErr != nil {
				if errors.Is(aggErr, context.Canceled) || errors.Is(aggErr, context.DeadlineExceeded) {
					return aggErr
				}
				s.logger.Error("player aggregation failed",
					slog.Int("player_id", playerID),
					slog.Int("period_id", period.ID),
					slog.Any("error", aggErr))
				mu.Lock()
				result.Errors = append(result.Errors, PlayerError{PlayerID: playerID, Error: aggErr.Error()})
				mu.Unlock()
				return nil
			}
			mu.Lock()
			result.RankingsUpdated++
			mu.Unlock()
			return nil
		})
		result.PlayersProcessed++
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("recalculation aborted: %w", err)
	}

	// Ranking reads must observe every committed aggregation, so this runs
	// strictly after the fan-out completes.
	ranked, err := s.standings.AssignPositions(ctx, period.ID, state)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.StandingsUpdated(period.ID, ranked)
	}

	result.CompletedAt = time.Now().UTC()
	s.logger.Info("full recalculation completed",
		slog.Int("period_id", period.ID),
		slog.Int("players_processed", result.PlayersProcessed),
		slog.Int("rankings_updated", result.RankingsUpdated),
		slog.Int("players_ranked", ranked),
		slog.Int("player_errors", len(result.Errors)))
	return result, nil
}

func (s *recalcService) HandleMatchCompleted(ctx context.Context, matchID int) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to load match %d: %w", matchID, err)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to load tournament %d: %w", match.TournamentID, err)
	}
	if !tournament.RankingEligible {
		return nil
	}

	period, err := s.periods.GetActivePeriod(ctx)
	if err != nil {
		if errors.Is(err, ErrNoActivePeriod) {
			return nil
		}
		return err
	}

	for _, playerID := range match.PlayerIDs() {
		if _, aggErr := s.aggregator.AggregatePlayer(ctx, playerID, period.ID); aggErr != nil {
			s.logger.Error("partial recalculation failed for player",
				slog.Int("player_id", playerID),
				slog.Int("match_id", matchID),
				slog.Any("error", aggErr))
		}
	}

	ranked, err := s.standings.AssignPositions(ctx, period.ID, tournament.State)
	if err != nil {
		return fmt.Errorf("failed to re-rank after match %d: %w", matchID, err)
	}
	if s.notifier != nil {
		s.notifier.StandingsUpdated(period.ID, ranked)
	}

	s.logger.Info("partial recalculation completed",
		slog.Int("match_id", matchID),
		slog.Int("tournament_id", tournament.ID),
		slog.Int("period_id", period.ID),
		slog.Int("players_ranked", ranked))
	return nil
}
