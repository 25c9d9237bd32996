package services

import (
	"context"
	"fmt"

	"github.com/pbfed/ranking-engine/repositories"
	"github.com/pbfed/ranking-engine/scoring"
)

// FinishResult carries a player's placement in one tournament category. A
// nil FinishPosition means the player is excluded from scoring (never an
// error): they played no completed match, or the category's field is too
// small to score.
type FinishResult struct {
	FinishPosition    *int `json:"finish_position"`
	TotalParticipants int  `json:"total_participants"`
}

type FinishResolver interface {
	ResolveFinish(ctx context.Context, playerID, tournamentID, categoryID int) (*FinishResult, error)
}

type finishResolver struct {
	matchRepo        repositories.MatchRepository
	registrationRepo repositories.RegistrationRepository
}

func NewFinishResolver(
	matchRepo repositories.MatchRepository,
	registrationRepo repositories.RegistrationRepository,
) FinishResolver {
	return &finishResolver{
		matchRepo:        matchRepo,
		registrationRepo: registrationRepo,
	}
}

// ResolveFinish derives placement from the player's completed matches in
// one category. A final-round result places exactly (champion or
// runner-up); any earlier elimination is bucketed into the power-of-two
// position for the round reached. The field size is counted live from the
// category's active registrations.
func (r *finishResolver) ResolveFinish(ctx context.Context, playerID, tournamentID, categoryID int) (*FinishResult, error) {
	totalParticipants, err := r.registrationRepo.CountActiveByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to count field for category %d: %w", categoryID, err)
	}

	result := &FinishResult{TotalParticipants: totalParticipants}
	if totalParticipants < 2 {
		// Single-participant categories are excluded from scoring.
		return result, nil
	}

	matches, err := r.matchRepo.ListCompletedByPlayer(ctx, playerID, tournamentID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed matches for player %d in category %d: %w", playerID, categoryID, err)
	}
	if len(matches) == 0 {
		return result, nil
	}

	// Matches arrive most advanced round first.
	lastMatch := matches[0]
	finalRound := scoring.DrawRounds(totalParticipants)

	if lastMatch.Round >= finalRound {
		side := lastMatch.SideOf(playerID)
		position := 2
		if lastMatch.WinnerSide != nil && side == *lastMatch.WinnerSide {
			position = 1
		}
		result.FinishPosition = &position
		return result, nil
	}

	position := scoring.PositionForRound(totalParticipants, lastMatch.Round)
	result.FinishPosition = &position
	return result, nil
}
