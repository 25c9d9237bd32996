package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pbfed/ranking-engine/models"
	"github.com/pbfed/ranking-engine/repositories"
)

// RankingsQueryService serves the read side: leaderboards, per-player
// summaries and the points ledger. Pure reads over what the engine
// persisted.
type RankingsQueryService interface {
	Leaderboard(ctx context.Context, periodID int, state *string, limit, offset int) ([]*models.PlayerRanking, error)
	PlayerRanking(ctx context.Context, playerID, periodID int) (*models.PlayerRanking, error)
	PlayerPointsHistory(ctx context.Context, playerID int, periodID *int, limit int) ([]*models.RankingPointsHistory, error)
}

type rankingsQueryService struct {
	rankingRepo repositories.PlayerRankingRepository
	historyRepo repositories.PointsHistoryRepository
	playerRepo  repositories.PlayerRepository
}

func NewRankingsQueryService(
	rankingRepo repositories.PlayerRankingRepository,
	historyRepo repositories.PointsHistoryRepository,
	playerRepo repositories.PlayerRepository,
) RankingsQueryService {
	return &rankingsQueryService{
		rankingRepo: rankingRepo,
		historyRepo: historyRepo,
		playerRepo:  playerRepo,
	}
}

func (s *rankingsQueryService) Leaderboard(ctx context.Context, periodID int, state *string, limit, offset int) ([]*models.PlayerRanking, error) {
	rankings, err := s.rankingRepo.ListLeaderboard(ctx, periodID, state, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard for period %d: %w", periodID, err)
	}
	return rankings, nil
}

func (s *rankingsQueryService) PlayerRanking(ctx context.Context, playerID, periodID int) (*models.PlayerRanking, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", playerID, err)
	}

	ranking, err := s.rankingRepo.GetByPlayerAndPeriod(ctx, playerID, periodID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerRankingNotFound) {
			return nil, ErrRankingNotFound
		}
		return nil, fmt.Errorf("failed to load ranking for player %d in period %d: %w", playerID, periodID, err)
	}
	return ranking, nil
}

func (s *rankingsQueryService) PlayerPointsHistory(ctx context.Context, playerID int, periodID *int, limit int) ([]*models.RankingPointsHistory, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load player %d: %w", playerID, err)
	}

	entries, err := s.historyRepo.ListByPlayer(ctx, playerID, periodID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load points history for player %d: %w", playerID, err)
	}
	return entries, nil
}
