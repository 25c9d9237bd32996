package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pbfed/ranking-engine/models"
	"github.com/pbfed/ranking-engine/repositories"
	"github.com/pbfed/ranking-engine/scoring"
)

// TournamentResult is one scored (tournament, category) entry for a player.
type TournamentResult struct {
	TournamentID      int `json:"tournament_id"`
	CategoryID        int `json:"category_id"`
	FinishPosition    int `json:"finish_position"`
	TotalParticipants int `json:"total_participants"`
	Points            int `json:"points"`
}

// AggregateResult summarizes one aggregation run for a player and period.
type AggregateResult struct {
	PlayerID          int                `json:"player_id"`
	PeriodID          int                `json:"period_id"`
	TotalPoints       int                `json:"total_points"`
	TournamentsPlayed int                `json:"tournaments_played"`
	BestFinish        *int               `json:"best_finish,omitempty"`
	Results           []TournamentResult `json:"results"`
}

type AggregatorService interface {
	AggregatePlayer(ctx context.Context, playerID, periodID int) (*AggregateResult, error)
}

type aggregatorService struct {
	tx               repositories.TxRunner
	periodRepo       repositories.PeriodRepository
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	historyRepo      repositories.PointsHistoryRepository
	rankingRepo      repositories.PlayerRankingRepository
	resolver         FinishResolver
}

func NewAggregatorService(
	tx repositories.TxRunner,
	periodRepo repositories.PeriodRepository,
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	historyRepo repositories.PointsHistoryRepository,
	rankingRepo repositories.PlayerRankingRepository,
	resolver FinishResolver,
) AggregatorService {
	return &aggregatorService{
		tx:               tx,
		periodRepo:       periodRepo,
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		historyRepo:      historyRepo,
		rankingRepo:      rankingRepo,
		resolver:         resolver,
	}
}

// AggregatePlayer walks the player's registrations in ranking-eligible
// tournaments inside the period, scores every resolvable finish, and
// atomically replaces the player's history rows before upserting the
// summary. Re-running on unchanged data yields identical rows: each run is
// the authoritative full replacement, never an append.
func (s *aggregatorService) AggregatePlayer(ctx context.Context, playerID, periodID int) (*AggregateResult, error) {
	period, err := s.periodRepo.GetByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, repositories.ErrPeriodNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to load period %d: %w", periodID, err)
	}

	tournaments, err := s.tournamentRepo.ListRankingEligibleByPlayer(ctx, playerID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible tournaments for player %d: %w", playerID, err)
	}

	result := &AggregateResult{
		PlayerID: playerID,
		PeriodID: periodID,
		Results:  make([]TournamentResult, 0),
	}

	for _, tournament := range tournaments {
		registrations, regErr := s.registrationRepo.ListByPlayerAndTournament(ctx, playerID, tournament.ID)
		if regErr != nil {
			return nil, fmt.Errorf("failed to list registrations for player %d in tournament %d: %w", playerID, tournament.ID, regErr)
		}

		scoredTournament := false
		for _, registration := range registrations {
			finish, resErr := s.resolver.ResolveFinish(ctx, playerID, tournament.ID, registration.CategoryID)
			if resErr != nil {
				return nil, fmt.Errorf("failed to resolve finish for player %d in category %d: %w", playerID, registration.CategoryID, resErr)
			}
			if finish.FinishPosition == nil {
				continue
			}

			points, calcErr := scoring.CalculatePoints(tournament.Type, finish.TotalParticipants, *finish.FinishPosition, tournament.RankingMultiplier)
			if errors.Is(calcErr, scoring.ErrFieldTooSmall) {
				continue
			}
			if calcErr != nil {
				return nil, fmt.Errorf("failed to score player %d in category %d: %w", playerID, registration.CategoryID, calcErr)
			}

			result.TotalPoints += points
			result.Results = append(result.Results, TournamentResult{
				TournamentID:      tournament.ID,
				CategoryID:        registration.CategoryID,
				FinishPosition:    *finish.FinishPosition,
				TotalParticipants: finish.TotalParticipants,
				Points:            points,
			})
			if result.BestFinish == nil || *finish.FinishPosition < *result.BestFinish {
				best := *finish.FinishPosition
				result.BestFinish = &best
			}
			scoredTournament = true
		}
		if scoredTournament {
			result.TournamentsPlayed++
		}
	}

	if err := s.persist(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// persist replaces the player's period ledger and upserts the summary in
// one transaction.
func (s *aggregatorService) persist(ctx context.Context, result *AggregateResult) error {
	now := time.Now().UTC()
	err := s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.historyRepo.DeleteByPlayerAndPeriod(ctx, exec, result.PlayerID, result.PeriodID); err != nil {
			return err
		}

		for _, scored := range result.Results {
			entry := &models.RankingPointsHistory{
				PlayerID:          result.PlayerID,
				TournamentID:      scored.TournamentID,
				CategoryID:        scored.CategoryID,
				PeriodID:          result.PeriodID,
				PointsEarned:      scored.Points,
				FinishPosition:    scored.FinishPosition,
				TotalParticipants: scored.TotalParticipants,
				CreatedAt:         now,
			}
			if err := s.historyRepo.Create(ctx, exec, entry); err != nil {
				return err
			}
		}

		ranking := &models.PlayerRanking{
			PlayerID:          result.PlayerID,
			PeriodID:          result.PeriodID,
			TotalPoints:       result.TotalPoints,
			TournamentsPlayed: result.TournamentsPlayed,
			BestFinish:        result.BestFinish,
			UpdatedAt:         now,
		}
		return s.rankingRepo.Upsert(ctx, exec, ranking)
	})
	if err != nil {
		return fmt.Errorf("failed to persist aggregation for player %d: %w", result.PlayerID, err)
	}
	return nil
}
