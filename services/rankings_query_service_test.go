package services

import (
	"context"
	"testing"

	"github.com/pbfed/ranking-engine/models"
	"github.com/pbfed/ranking-engine/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerRanking(t *testing.T) {
	t.Run("returns the player's row", func(t *testing.T) {
		want := &models.PlayerRanking{ID: 1, PlayerID: 7, PeriodID: 1, TotalPoints: 320, RankingPosition: intPtr(4)}

		playerRepo := &fakePlayerRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Player, error) {
				return &models.Player{ID: id}, nil
			},
		}
		rankingRepo := &fakePlayerRankingRepo{
			GetByPlayerAndPeriodFunc: func(_ context.Context, playerID, periodID int) (*models.PlayerRanking, error) {
				assert.Equal(t, 7, playerID)
				assert.Equal(t, 1, periodID)
				return want, nil
			},
		}

		svc := NewRankingsQueryService(rankingRepo, &fakePointsHistoryRepo{}, playerRepo)
		got, err := svc.PlayerRanking(context.Background(), 7, 1)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("unknown player", func(t *testing.T) {
		playerRepo := &fakePlayerRepo{
			GetByIDFunc: func(_ context.Context, _ int) (*models.Player, error) {
				return nil, repositories.ErrPlayerNotFound
			},
		}

		svc := NewRankingsQueryService(&fakePlayerRankingRepo{}, &fakePointsHistoryRepo{}, playerRepo)
		_, err := svc.PlayerRanking(context.Background(), 99, 1)
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})

	t.Run("player exists but is unranked", func(t *testing.T) {
		playerRepo := &fakePlayerRepo{
			GetByIDFunc: func(_ context.Context, id int) (*models.Player, error) {
				return &models.Player{ID: id}, nil
			},
		}
		rankingRepo := &fakePlayerRankingRepo{
			GetByPlayerAndPeriodFunc: func(_ context.Context, _, _ int) (*models.PlayerRanking, error) {
				return nil, repositories.ErrPlayerRankingNotFound
			},
		}

		svc := NewRankingsQueryService(rankingRepo, &fakePointsHistoryRepo{}, playerRepo)
		_, err := svc.PlayerRanking(context.Background(), 7, 1)
		assert.ErrorIs(t, err, ErrRankingNotFound)
	})
}

func TestPlayerPointsHistory(t *testing.T) {
	entries := []*models.RankingPointsHistory{
		{ID: 1, PlayerID: 7, TournamentID: 1, PointsEarned: 533},
		{ID: 2, PlayerID: 7, TournamentID: 2, PointsEarned: 50},
	}

	playerRepo := &fakePlayerRepo{
		GetByIDFunc: func(_ context.Context, id int) (*models.Player, error) {
			return &models.Player{ID: id}, nil
		},
	}
	historyRepo := &fakePointsHistoryRepo{
		ListByPlayerFunc: func(_ context.Context, playerID int, periodID *int, limit int) ([]*models.RankingPointsHistory, error) {
			assert.Equal(t, 7, playerID)
			require.NotNil(t, periodID)
			assert.Equal(t, 1, *periodID)
			assert.Equal(t, 20, limit)
			return entries, nil
		},
	}

	svc := NewRankingsQueryService(&fakePlayerRankingRepo{}, historyRepo, playerRepo)
	got, err := svc.PlayerPointsHistory(context.Background(), 7, intPtr(1), 20)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestLeaderboard(t *testing.T) {
	rows := []*models.PlayerRanking{
		{ID: 2, PlayerID: 102, TotalPoints: 450, RankingPosition: intPtr(1)},
		{ID: 3, PlayerID: 103, TotalPoints: 300, RankingPosition: intPtr(2)},
	}

	rankingRepo := &fakePlayerRankingRepo{
		ListLeaderboardFunc: func(_ context.Context, periodID int, state *string, limit, offset int) ([]*models.PlayerRanking, error) {
			assert.Equal(t, 1, periodID)
			require.NotNil(t, state)
			assert.Equal(t, "CA", *state)
			assert.Equal(t, 25, limit)
			assert.Equal(t, 50, offset)
			return rows, nil
		},
	}

	svc := NewRankingsQueryService(rankingRepo, &fakePointsHistoryRepo{}, &fakePlayerRepo{})
	got, err := svc.Leaderboard(context.Background(), 1, strPtr("CA"), 25, 50)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}
