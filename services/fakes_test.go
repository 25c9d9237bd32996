package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pbfed/ranking-engine/events"
	"github.com/pbfed/ranking-engine/models"
	"github.com/pbfed/ranking-engine/repositories"
)

// Hand-written function-field fakes: tests set only the methods they need
// and an unset method panics, which surfaces unexpected calls immediately.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

type fakeTournamentRepo struct {
	GetByIDFunc                     func(ctx context.Context, id int) (*models.Tournament, error)
	ListRankingEligibleByPlayerFunc func(ctx context.Context, playerID int, from, to time.Time) ([]*models.Tournament, error)
}

func (f *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeTournamentRepo) ListRankingEligibleByPlayer(ctx context.Context, playerID int, from, to time.Time) ([]*models.Tournament, error) {
	return f.ListRankingEligibleByPlayerFunc(ctx, playerID, from, to)
}

type fakeRegistrationRepo struct {
	ListByPlayerAndTournamentFunc func(ctx context.Context, playerID, tournamentID int) ([]*models.Registration, error)
	CountActiveByCategoryFunc     func(ctx context.Context, categoryID int) (int, error)
}

func (f *fakeRegistrationRepo) ListByPlayerAndTournament(ctx context.Context, playerID, tournamentID int) ([]*models.Registration, error) {
	return f.ListByPlayerAndTournamentFunc(ctx, playerID, tournamentID)
}

func (f *fakeRegistrationRepo) CountActiveByCategory(ctx context.Context, categoryID int) (int, error) {
	return f.CountActiveByCategoryFunc(ctx, categoryID)
}

type fakeMatchRepo struct {
	GetByIDFunc               func(ctx context.Context, id int) (*models.Match, error)
	ListCompletedByPlayerFunc func(ctx context.Context, playerID, tournamentID, categoryID int) ([]*models.Match, error)
	RecordResultFunc          func(ctx context.Context, id int, score *string, winnerSide int, completedAt time.Time) error
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakeMatchRepo) ListCompletedByPlayer(ctx context.Context, playerID, tournamentID, categoryID int) ([]*models.Match, error) {
	return f.ListCompletedByPlayerFunc(ctx, playerID, tournamentID, categoryID)
}

func (f *fakeMatchRepo) RecordResult(ctx context.Context, id int, score *string, winnerSide int, completedAt time.Time) error {
	return f.RecordResultFunc(ctx, id, score, winnerSide, completedAt)
}

type fakePlayerRepo struct {
	GetByIDFunc                  func(ctx context.Context, id int) (*models.Player, error)
	ListIDsWithRankedResultsFunc func(ctx context.Context, from, to time.Time, state *string) ([]int, error)
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakePlayerRepo) ListIDsWithRankedResults(ctx context.Context, from, to time.Time, state *string) ([]int, error) {
	return f.ListIDsWithRankedResultsFunc(ctx, from, to, state)
}

type fakePeriodRepo struct {
	CreateFunc       func(ctx context.Context, period *models.RankingPeriod) error
	GetByIDFunc      func(ctx context.Context, id int) (*models.RankingPeriod, error)
	GetActiveFunc    func(ctx context.Context) (*models.RankingPeriod, error)
	ListFunc         func(ctx context.Context) ([]*models.RankingPeriod, error)
	UpdateStatusFunc func(ctx context.Context, id int, status models.PeriodStatus) error
}

func (f *fakePeriodRepo) Create(ctx context.Context, period *models.RankingPeriod) error {
	return f.CreateFunc(ctx, period)
}

func (f *fakePeriodRepo) GetByID(ctx context.Context, id int) (*models.RankingPeriod, error) {
	return f.GetByIDFunc(ctx, id)
}

func (f *fakePeriodRepo) GetActive(ctx context.Context) (*models.RankingPeriod, error) {
	return f.GetActiveFunc(ctx)
}

func (f *fakePeriodRepo) List(ctx context.Context) ([]*models.RankingPeriod, error) {
	return f.ListFunc(ctx)
}

func (f *fakePeriodRepo) UpdateStatus(ctx context.Context, id int, status models.PeriodStatus) error {
	return f.UpdateStatusFunc(ctx, id, status)
}

type fakePlayerRankingRepo struct {
	UpsertFunc               func(ctx context.Context, exec repositories.SQLExecutor, ranking *models.PlayerRanking) error
	GetByPlayerAndPeriodFunc func(ctx context.Context, playerID, periodID int) (*models.PlayerRanking, error)
	ListByPeriodFunc         func(ctx context.Context, periodID int, state *string) ([]*models.PlayerRanking, error)
	UpdatePositionFunc       func(ctx context.Context, id int, position int, previous *int) error
	ListLeaderboardFunc      func(ctx context.Context, periodID int, state *string, limit, offset int) ([]*models.PlayerRanking, error)
}

func (f *fakePlayerRankingRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, ranking *models.PlayerRanking) error {
	return f.UpsertFunc(ctx, exec, ranking)
}

func (f *fakePlayerRankingRepo) GetByPlayerAndPeriod(ctx context.Context, playerID, periodID int) (*models.PlayerRanking, error) {
	return f.GetByPlayerAndPeriodFunc(ctx, playerID, periodID)
}

func (f *fakePlayerRankingRepo) ListByPeriod(ctx context.Context, periodID int, state *string) ([]*models.PlayerRanking, error) {
	return f.ListByPeriodFunc(ctx, periodID, state)
}

func (f *fakePlayerRankingRepo) UpdatePosition(ctx context.Context, id int, position int, previous *int) error {
	return f.UpdatePositionFunc(ctx, id, position, previous)
}

func (f *fakePlayerRankingRepo) ListLeaderboard(ctx context.Context, periodID int, state *string, limit, offset int) ([]*models.PlayerRanking, error) {
	return f.ListLeaderboardFunc(ctx, periodID, state, limit, offset)
}

type fakePointsHistoryRepo struct {
	CreateFunc                  func(ctx context.Context, exec repositories.SQLExecutor, entry *models.RankingPointsHistory) error
	DeleteByPlayerAndPeriodFunc func(ctx context.Context, exec repositories.SQLExecutor, playerID, periodID int) error
	ListByPlayerFunc            func(ctx context.Context, playerID int, periodID *int, limit int) ([]*models.RankingPointsHistory, error)
	CountByPlayerAndPeriodFunc  func(ctx context.Context, playerID, periodID int) (int, error)
}

func (f *fakePointsHistoryRepo) Create(ctx context.Context, exec repositories.SQLExecutor, entry *models.RankingPointsHistory) error {
	return f.CreateFunc(ctx, exec, entry)
}

func (f *fakePointsHistoryRepo) DeleteByPlayerAndPeriod(ctx context.Context, exec repositories.SQLExecutor, playerID, periodID int) error {
	return f.DeleteByPlayerAndPeriodFunc(ctx, exec, playerID, periodID)
}

func (f *fakePointsHistoryRepo) ListByPlayer(ctx context.Context, playerID int, periodID *int, limit int) ([]*models.RankingPointsHistory, error) {
	return f.ListByPlayerFunc(ctx, playerID, periodID, limit)
}

func (f *fakePointsHistoryRepo) CountByPlayerAndPeriod(ctx context.Context, playerID, periodID int) (int, error) {
	return f.CountByPlayerAndPeriodFunc(ctx, playerID, periodID)
}

// fakeTxRunner runs the callback inline with a nil executor, so repository
// fakes observe the same ordering the real transaction would.
type fakeTxRunner struct {
	RunInTxFunc func(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

func (f *fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	if f.RunInTxFunc != nil {
		return f.RunInTxFunc(ctx, fn)
	}
	return fn(nil)
}

type fakePeriodService struct {
	GetOrCreateActivePeriodFunc func(ctx context.Context) (*models.RankingPeriod, error)
	GetActivePeriodFunc         func(ctx context.Context) (*models.RankingPeriod, error)
	GetPeriodFunc               func(ctx context.Context, id int) (*models.RankingPeriod, error)
	ListPeriodsFunc             func(ctx context.Context) ([]*models.RankingPeriod, error)
	ClosePeriodFunc             func(ctx context.Context, id int) (*models.RankingPeriod, error)
}

func (f *fakePeriodService) GetOrCreateActivePeriod(ctx context.Context) (*models.RankingPeriod, error) {
	return f.GetOrCreateActivePeriodFunc(ctx)
}

func (f *fakePeriodService) GetActivePeriod(ctx context.Context) (*models.RankingPeriod, error) {
	return f.GetActivePeriodFunc(ctx)
}

func (f *fakePeriodService) GetPeriod(ctx context.Context, id int) (*models.RankingPeriod, error) {
	return f.GetPeriodFunc(ctx, id)
}

func (f *fakePeriodService) ListPeriods(ctx context.Context) ([]*models.RankingPeriod, error) {
	return f.ListPeriodsFunc(ctx)
}

func (f *fakePeriodService) ClosePeriod(ctx context.Context, id int) (*models.RankingPeriod, error) {
	return f.ClosePeriodFunc(ctx, id)
}

type fakeAggregatorService struct {
	AggregatePlayerFunc func(ctx context.Context, playerID, periodID int) (*AggregateResult, error)
}

func (f *fakeAggregatorService) AggregatePlayer(ctx context.Context, playerID, periodID int) (*AggregateResult, error) {
	return f.AggregatePlayerFunc(ctx, playerID, periodID)
}

type fakeStandingsService struct {
	AssignPositionsFunc func(ctx context.Context, periodID int, state *string) (int, error)
}

func (f *fakeStandingsService) AssignPositions(ctx context.Context, periodID int, state *string) (int, error) {
	return f.AssignPositionsFunc(ctx, periodID, state)
}

type fakeFinishResolver struct {
	ResolveFinishFunc func(ctx context.Context, playerID, tournamentID, categoryID int) (*FinishResult, error)
}

func (f *fakeFinishResolver) ResolveFinish(ctx context.Context, playerID, tournamentID, categoryID int) (*FinishResult, error) {
	return f.ResolveFinishFunc(ctx, playerID, tournamentID, categoryID)
}

type fakePublisher struct {
	PublishMatchCompletedFunc func(ctx context.Context, event events.MatchCompletedEvent) error
}

func (f *fakePublisher) PublishMatchCompleted(ctx context.Context, event events.MatchCompletedEvent) error {
	return f.PublishMatchCompletedFunc(ctx, event)
}

type notifyCall struct {
	PeriodID int
	Ranked   int
}

type fakeNotifier struct {
	Calls []notifyCall
}

func (f *fakeNotifier) StandingsUpdated(periodID, playersRanked int) {
	f.Calls = append(f.Calls, notifyCall{PeriodID: periodID, Ranked: playersRanked})
}
