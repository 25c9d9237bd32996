package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pbfed/ranking-engine/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchPlayerInvalid     = errors.New("match player conflict or invalid")
)

type MatchRepository interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// ListCompletedByPlayer returns the player's completed matches in one
	// tournament category, most advanced round first.
	ListCompletedByPlayer(ctx context.Context, playerID, tournamentID, categoryID int) ([]*models.Match, error)
	// RecordResult sets score, winner side and completion in one update.
	RecordResult(ctx context.Context, id int, score *string, winnerSide int, completedAt time.Time) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, tournament_id, category_id, side1_player_id, side1_partner_id,
	side2_player_id, side2_partner_id, round, score, status, winner_side, completed_at, created_at`

func scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID,
		&m.TournamentID,
		&m.CategoryID,
		&m.Side1PlayerID,
		&m.Side1PartnerID,
		&m.Side2PlayerID,
		&m.Side2PartnerID,
		&m.Round,
		&m.Score,
		&m.Status,
		&m.WinnerSide,
		&m.CompletedAt,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListCompletedByPlayer(ctx context.Context, playerID, tournamentID, categoryID int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1
		  AND category_id = $2
		  AND status = $3
		  AND (side1_player_id = $4 OR side1_partner_id = $4
		       OR side2_player_id = $4 OR side2_partner_id = $4)
		ORDER BY round DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, categoryID, models.MatchStatusCompleted, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed matches for player %d in category %d: %w", playerID, categoryID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) RecordResult(ctx context.Context, id int, score *string, winnerSide int, completedAt time.Time) error {
	query := `
		UPDATE matches
		SET score = $1, status = $2, winner_side = $3, completed_at = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, score, models.MatchStatusCompleted, winnerSide, completedAt, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey", "matches_category_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_side1_player_id_fkey", "matches_side1_partner_id_fkey",
			"matches_side2_player_id_fkey", "matches_side2_partner_id_fkey":
			return ErrMatchPlayerInvalid
		}
	}
	return err
}
