package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/pbfed/ranking-engine/repositories"
)

type StandingsService interface {
	// AssignPositions orders a period's ranking rows and writes dense
	// 1-based positions, returning how many rows were ranked. Must run
	// only after all aggregation writes for the scope have committed.
	AssignPositions(ctx context.Context, periodID int, state *string) (int, error)
}

type standingsService struct {
	rankingRepo repositories.PlayerRankingRepository
}

func NewStandingsService(rankingRepo repositories.PlayerRankingRepository) StandingsService {
	return &standingsService{rankingRepo: rankingRepo}
}

func (s *standingsService) AssignPositions(ctx context.Context, periodID int, state *string) (int, error) {
	rankings, err := s.rankingRepo.ListByPeriod(ctx, periodID, state)
	if err != nil {
		return 0, fmt.Errorf("failed to load rankings for period %d: %w", periodID, err)
	}

	// Points descending, then tournaments played descending, then player ID
	// ascending as a stable tertiary key for deterministic pagination.
	sort.Slice(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.TournamentsPlayed != b.TournamentsPlayed {
			return a.TournamentsPlayed > b.TournamentsPlayed
		}
		return a.PlayerID < b.PlayerID
	})

	for i, ranking := range rankings {
		position := i + 1
		previous := ranking.RankingPosition
		if err := s.rankingRepo.UpdatePosition(ctx, ranking.ID, position, previous); err != nil {
			return 0, fmt.Errorf("failed to assign position %d to ranking %d: %w", position, ranking.ID, err)
		}
	}
	return len(rankings), nil
}
