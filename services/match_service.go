package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pbfed/ranking-engine/events"
	"github.com/pbfed/ranking-engine/models"
	"github.com/pbfed/ranking-engine/repositories"
)

type RecordMatchResultInput struct {
	Score      *string `json:"score"`
	WinnerSide int     `json:"winner_side"`
}

type MatchService interface {
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	// RecordResult marks a match completed and dispatches the
	// match-completed event. Event dispatch is best-effort: a dispatch
	// failure is logged and the recorded result stands.
	RecordResult(ctx context.Context, matchID int, input RecordMatchResultInput) (*models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	publisher events.Publisher,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo: matchRepo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return match, nil
}

func (s *matchService) RecordResult(ctx context.Context, matchID int, input RecordMatchResultInput) (*models.Match, error) {
	if input.WinnerSide != 1 && input.WinnerSide != 2 {
		return nil, ErrMatchInvalidWinnerSide
	}

	match, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	switch match.Status {
	case models.MatchStatusCompleted:
		return nil, ErrMatchAlreadyCompleted
	case models.MatchStatusCanceled:
		return nil, ErrMatchNotScoreable
	}
	if !sideOccupied(match, input.WinnerSide) {
		return nil, ErrMatchSideVacant
	}

	completedAt := time.Now().UTC()
	if err := s.matchRepo.RecordResult(ctx, matchID, input.Score, input.WinnerSide, completedAt); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to record result for match %d: %w", matchID, err)
	}

	match.Score = input.Score
	match.Status = models.MatchStatusCompleted
	match.WinnerSide = &input.WinnerSide
	match.CompletedAt = &completedAt

	if s.publisher != nil {
		event := events.MatchCompletedEvent{MatchID: match.ID, TournamentID: match.TournamentID}
		if pubErr := s.publisher.PublishMatchCompleted(ctx, event); pubErr != nil {
			s.logger.Error("failed to dispatch match completed event",
				slog.Int("match_id", match.ID),
				slog.Any("error", pubErr))
		}
	}
	return match, nil
}

func sideOccupied(m *models.Match, side int) bool {
	if side == 1 {
		return m.Side1PlayerID != nil || m.Side1PartnerID != nil
	}
	return m.Side2PlayerID != nil || m.Side2PartnerID != nil
}
