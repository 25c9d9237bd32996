package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/pbfed/ranking-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activePeriod() *models.RankingPeriod {
	return &models.RankingPeriod{
		ID:        1,
		StartDate: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC),
		Status:    models.PeriodStatusActive,
	}
}

func TestRecalculateAll_AggregatesEveryCandidateThenRanks(t *testing.T) {
	var mu sync.Mutex
	var aggregated []int
	ranked := false

	periods := &fakePeriodService{
		GetOrCreateActivePeriodFunc: func(_ context.Context) (*models.RankingPeriod, error) {
			return activePeriod(), nil
		},
	}
	playerRepo := &fakePlayerRepo{
		ListIDsWithRankedResultsFunc: func(_ context.Context, _, _ time.Time, _ *string) ([]int, error) {
			return []int{11, 12, 13, 14}, nil
		},
	}
	aggregator := &fakeAggregatorService{
		AggregatePlayerFunc: func(_ context.Context, playerID, periodID int) (*AggregateResult, error) {
			assert.Equal(t, 1, periodID)
			mu.Lock()
			aggregated = append(aggregated, playerID)
			mu.Unlock()
			return &AggregateResult{PlayerID: playerID, PeriodID: periodID}, nil
		},
	}
	standings := &fakeStandingsService{
		AssignPositionsFunc: func(_ context.Context, periodID int, state *string) (int, error) {
			// Ranking must observe every aggregation.
			mu.Lock()
			assert.Len(t, aggregated, 4)
			mu.Unlock()
			ranked = true
			assert.Nil(t, state)
			return 4, nil
		},
	}
	notifier := &fakeNotifier{}

	svc := NewRecalcService(periods, aggregator, standings, playerRepo, nil, nil, notifier, testLogger(), 2)
	result, err := svc.RecalculateAll(context.Background(), nil)
	require.NoError(t, err)

	sort.Ints(aggregated)
	assert.Equal(t, []int{11, 12, 13, 14}, aggregated)
	assert.True(t, ranked)
	assert.Equal(t, 4, result.PlayersProcessed)
	assert.Equal(t, 4, result.RankingsUpdated)
	assert.Empty(t, result.Errors)
	assert.False(t, result.CompletedAt.IsZero())

	require.Len(t, notifier.Calls, 1)
	assert.Equal(t, notifyCall{PeriodID: 1, Ranked: 4}, notifier.Calls[0])
}

func TestRecalculateAll_CollectsPlayerFailuresWithoutAborting(t *testing.T) {
	periods := &fakePeriodService{
		GetOrCreateActivePeriodFunc: func(_ context.Context) (*models.RankingPeriod, error) {
			return activePeriod(), nil
		},
	}
	playerRepo := &fakePlayerRepo{
		ListIDsWithRankedResultsFunc: func(_ context.Context, _, _ time.Time, _ *string) ([]int, error) {
			return []int{11, 12, 13}, nil
		},
	}
	aggregator := &fakeAggregatorService{
		AggregatePlayerFunc: func(_ context.Context, playerID, periodID int) (*AggregateResult, error) {
			if playerID == 12 {
				return nil, errors.New("constraint violation")
			}
			return &AggregateResult{PlayerID: playerID, PeriodID: periodID}, nil
		},
	}
	standings := &fakeStandingsService{
		AssignPositionsFunc: func(_ context.Context, _ int, _ *string) (int, error) { return 2, nil },
	}

	svc := NewRecalcService(periods, aggregator, standings, playerRepo, nil, nil, nil, testLogger(), 2)
	result, err := svc.RecalculateAll(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.PlayersProcessed)
	assert.Equal(t, 2, result.RankingsUpdated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 12, result.Errors[0].PlayerID)
	assert.Contains(t, result.Errors[0].Error, "constraint violation")
}

func TestRecalculateAll_StateScopePassedThrough(t *testing.T) {
	var listedState, rankedState *string

	periods := &fakePeriodService{
		GetOrCreateActivePeriodFunc: func(_ context.Context) (*models.RankingPeriod, error) {
			return activePeriod(), nil
		},
	}
	playerRepo := &fakePlayerRepo{
		ListIDsWithRankedResultsFunc: func(_ context.Context, _, _ time.Time, state *string) ([]int, error) {
			listedState = state
			return nil, nil
		},
	}
	standings := &fakeStandingsService{
		AssignPositionsFunc: func(_ context.Context, _ int, state *string) (int, error) {
			rankedState = state
			return 0, nil
		},
	}

	svc := NewRecalcService(periods, &fakeAggregatorService{}, standings, playerRepo, nil, nil, nil, testLogger(), 2)
	_, err := svc.RecalculateAll(context.Background(), strPtr("TX"))
	require.NoError(t, err)

	require.NotNil(t, listedState)
	assert.Equal(t, "TX", *listedState)
	require.NotNil(t, rankedState)
	assert.Equal(t, "TX", *rankedState)
}

func TestHandleMatchCompleted_SkipsIneligibleTournament(t *testing.T) {
	matchRepo := &fakeMatchRepo{
		GetByIDFunc: func(_ context.Context, id int) (*models.Match, error) {
			return &models.Match{ID: id, TournamentID: 5, Side1PlayerID: intPtr(1), Side2PlayerID: intPtr(2)}, nil
		},
	}
	tournamentRepo := &fakeTournamentRepo{
		GetByIDFunc: func(_ context.Context, id int) (*models.Tournament, error) {
			return &models.Tournament{ID: id, RankingEligible: false}, nil
		},
	}
	aggregator := &fakeAggregatorService{
		AggregatePlayerFunc: func(_ context.Context, _, _ int) (*AggregateResult, error) {
			t.Fatal("aggregation must not run for an ineligible tournament")
			return nil, nil
		},
	}

	svc := NewRecalcService(&fakePeriodService{}, aggregator, &fakeStandingsService{}, nil, matchRepo, tournamentRepo, nil, testLogger(), 1)
	err := svc.HandleMatchCompleted(context.Background(), 40)
	require.NoError(t, err)
}

func TestHandleMatchCompleted_NoActivePeriodIsNoOp(t *testing.T) {
	matchRepo := &fakeMatchRepo{
		GetByIDFunc: func(_ context.Context, id int) (*models.Match, error) {
			return &models.Match{ID: id, TournamentID: 5, Side1PlayerID: intPtr(1), Side2PlayerID: intPtr(2)}, nil
		},
	}
	tournamentRepo := &fakeTournamentRepo{
		GetByIDFunc: func(_ context.Context, id int) (*models.Tournament, error) {
			return &models.Tournament{ID: id, RankingEligible: true}, nil
		},
	}
	periods := &fakePeriodService{
		GetActivePeriodFunc: func(_ context.Context) (*models.RankingPeriod, error) {
			return nil, ErrNoActivePeriod
		},
	}

	svc := NewRecalcService(periods, &fakeAggregatorService{}, &fakeStandingsService{}, nil, matchRepo, tournamentRepo, nil, testLogger(), 1)
	err := svc.HandleMatchCompleted(context.Background(), 40)
	require.NoError(t, err)
}

func TestHandleMatchCompleted_AggregatesMatchPlayersAndReRanksScope(t *testing.T) {
	// Doubles: partner slots count, duplicates collapse.
	match := &models.Match{
		ID:             40,
		TournamentID:   5,
		Side1PlayerID:  intPtr(1),
		Side1PartnerID: intPtr(2),
		Side2PlayerID:  intPtr(3),
		Side2PartnerID: intPtr(3),
	}

	matchRepo := &fakeMatchRepo{
		GetByIDFunc: func(_ context.Context, _ int) (*models.Match, error) { return match, nil },
	}
	tournamentRepo := &fakeTournamentRepo{
		GetByIDFunc: func(_ context.Context, id int) (*models.Tournament, error) {
			return &models.Tournament{ID: id, RankingEligible: true, State: strPtr("CA")}, nil
		},
	}
	periods := &fakePeriodService{
		GetActivePeriodFunc: func(_ context.Context) (*models.RankingPeriod, error) {
			return activePeriod(), nil
		},
	}

	var aggregated []int
	aggregator := &fakeAggregatorService{
		AggregatePlayerFunc: func(_ context.Context, playerID, periodID int) (*AggregateResult, error) {
			assert.Equal(t, 1, periodID)
			aggregated = append(aggregated, playerID)
			return &AggregateResult{PlayerID: playerID, PeriodID: periodID}, nil
		},
	}

	var rankedState *string
	standings := &fakeStandingsService{
		AssignPositionsFunc: func(_ context.Context, periodID int, state *string) (int, error) {
			assert.Equal(t, 1, periodID)
			rankedState = state
			return 3, nil
		},
	}
	notifier := &fakeNotifier{}

	svc := NewRecalcService(periods, aggregator, standings, nil, matchRepo, tournamentRepo, notifier, testLogger(), 1)
	err := svc.HandleMatchCompleted(context.Background(), 40)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, aggregated)
	require.NotNil(t, rankedState)
	assert.Equal(t, "CA", *rankedState)
	require.Len(t, notifier.Calls, 1)
	assert.Equal(t, notifyCall{PeriodID: 1, Ranked: 3}, notifier.Calls[0])
}

func TestHandleMatchCompleted_PlayerFailureDoesNotAbortTheRest(t *testing.T) {
	match := &models.Match{
		ID:            40,
		TournamentID:  5,
		Side1PlayerID: intPtr(1),
		Side2PlayerID: intPtr(2),
	}

	matchRepo := &fakeMatchRepo{
		GetByIDFunc: func(_ context.Context, _ int) (*models.Match, error) { return match, nil },
	}
	tournamentRepo := &fakeTournamentRepo{
		GetByIDFunc: func(_ context.Context, id int) (*models.Tournament, error) {
			return &models.Tournament{ID: id, RankingEligible: true}, nil
		},
	}
	periods := &fakePeriodService{
		GetActivePeriodFunc: func(_ context.Context) (*models.RankingPeriod, error) {
			return activePeriod(), nil
		},
	}

	var aggregated []int
	aggregator := &fakeAggregatorService{
		AggregatePlayerFunc: func(_ context.Context, playerID, _ int) (*AggregateResult, error) {
			aggregated = append(aggregated, playerID)
			if playerID == 1 {
				return nil, errors.New("deadlock detected")
			}
			return &AggregateResult{PlayerID: playerID}, nil
		},
	}
	standings := &fakeStandingsService{
		AssignPositionsFunc: func(_ context.Context, _ int, _ *string) (int, error) { return 1, nil },
	}

	svc := NewRecalcService(periods, aggregator, standings, nil, matchRepo, tournamentRepo, nil, testLogger(), 1)
	err := svc.HandleMatchCompleted(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, aggregated)
}
