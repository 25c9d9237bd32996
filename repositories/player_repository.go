package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pbfed/ranking-engine/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	GetByID(ctx context.Context, id int) (*models.Player, error)
	// ListIDsWithRankedResults returns the IDs of players who hold at least
	// one completed match in a ranking-eligible tournament starting within
	// [from, to], optionally restricted to one state.
	ListIDsWithRankedResults(ctx context.Context, from, to time.Time, state *string) ([]int, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT id, first_name, last_name, state, nrtp_level, status, created_at
		FROM players WHERE id = $1`

	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.State,
		&p.NRTPLevel,
		&p.Status,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player by id %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresPlayerRepository) ListIDsWithRankedResults(ctx context.Context, from, to time.Time, state *string) ([]int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT DISTINCT p.id
		FROM players p
		JOIN matches m ON (m.side1_player_id = p.id OR m.side1_partner_id = p.id
		                   OR m.side2_player_id = p.id OR m.side2_partner_id = p.id)
		JOIN tournaments t ON t.id = m.tournament_id
		WHERE m.status = $1
		  AND t.ranking_eligible = TRUE
		  AND t.start_date >= $2
		  AND t.start_date <= $3`)

	args := []interface{}{models.MatchStatusCompleted, from, to}
	if state != nil {
		queryBuilder.WriteString(" AND p.state = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *state)
	}
	queryBuilder.WriteString(" ORDER BY p.id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players with ranked results: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", scanErr)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player id rows iteration: %w", err)
	}
	return ids, nil
}
