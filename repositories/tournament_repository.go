package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pbfed/ranking-engine/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	// ListRankingEligibleByPlayer returns ranking-eligible tournaments
	// starting within [from, to] in which the player holds at least one
	// registration.
	ListRankingEligibleByPlayer(ctx context.Context, playerID int, from, to time.Time) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, type, ranking_eligible, ranking_multiplier, state, start_date, end_date, status, created_at`

func scanTournament(row interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Type,
		&t.RankingEligible,
		&t.RankingMultiplier,
		&t.State,
		&t.StartDate,
		&t.EndDate,
		&t.Status,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament by id %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) ListRankingEligibleByPlayer(ctx context.Context, playerID int, from, to time.Time) ([]*models.Tournament, error) {
	query := `
		SELECT DISTINCT t.id, t.name, t.type, t.ranking_eligible, t.ranking_multiplier,
		       t.state, t.start_date, t.end_date, t.status, t.created_at
		FROM tournaments t
		JOIN registrations reg ON reg.tournament_id = t.id
		WHERE reg.player_id = $1
		  AND t.ranking_eligible = TRUE
		  AND t.start_date >= $2
		  AND t.start_date <= $3
		ORDER BY t.start_date ASC, t.id ASC`

	rows, err := r.db.QueryContext(ctx, query, playerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible tournaments for player %d: %w", playerID, err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}
