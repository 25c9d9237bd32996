package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pbfed/ranking-engine/models"
)

var (
	ErrPlayerRankingNotFound      = errors.New("player ranking not found")
	ErrPlayerRankingPlayerInvalid = errors.New("player ranking player conflict or invalid")
	ErrPlayerRankingPeriodInvalid = errors.New("player ranking period conflict or invalid")
)

type PlayerRankingRepository interface {
	// Upsert writes the aggregation summary for (player, period), leaving
	// the position columns untouched for the ranker.
	Upsert(ctx context.Context, exec SQLExecutor, ranking *models.PlayerRanking) error
	GetByPlayerAndPeriod(ctx context.Context, playerID, periodID int) (*models.PlayerRanking, error)
	// ListByPeriod loads all summary rows for a period, optionally scoped
	// to players of one state. Ordering is the ranker's job.
	ListByPeriod(ctx context.Context, periodID int, state *string) ([]*models.PlayerRanking, error)
	UpdatePosition(ctx context.Context, id int, position int, previous *int) error
	// ListLeaderboard pages ranked rows in position order.
	ListLeaderboard(ctx context.Context, periodID int, state *string, limit, offset int) ([]*models.PlayerRanking, error)
}

type postgresPlayerRankingRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRankingRepository(db *sql.DB) PlayerRankingRepository {
	return &postgresPlayerRankingRepository{db: db}
}

func (r *postgresPlayerRankingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRankingRepository) Upsert(ctx context.Context, exec SQLExecutor, ranking *models.PlayerRanking) error {
	executor := r.getExecutor(exec)
	if ranking.UpdatedAt.IsZero() {
		ranking.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO player_rankings
			(player_id, period_id, total_points, tournaments_played, best_finish, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (player_id, period_id) DO UPDATE
		SET total_points = EXCLUDED.total_points,
		    tournaments_played = EXCLUDED.tournaments_played,
		    best_finish = EXCLUDED.best_finish,
		    updated_at = EXCLUDED.updated_at
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		ranking.PlayerID,
		ranking.PeriodID,
		ranking.TotalPoints,
		ranking.TournamentsPlayed,
		ranking.BestFinish,
		ranking.UpdatedAt,
	).Scan(&ranking.ID)

	return r.handleRankingError(err)
}

const rankingColumns = `id, player_id, period_id, total_points, tournaments_played,
	best_finish, ranking_position, previous_position, updated_at`

func scanRanking(row interface{ Scan(...interface{}) error }) (*models.PlayerRanking, error) {
	ranking := &models.PlayerRanking{}
	err := row.Scan(
		&ranking.ID,
		&ranking.PlayerID,
		&ranking.PeriodID,
		&ranking.TotalPoints,
		&ranking.TournamentsPlayed,
		&ranking.BestFinish,
		&ranking.RankingPosition,
		&ranking.PreviousPosition,
		&ranking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ranking, nil
}

func (r *postgresPlayerRankingRepository) GetByPlayerAndPeriod(ctx context.Context, playerID, periodID int) (*models.PlayerRanking, error) {
	query := `SELECT ` + rankingColumns + ` FROM player_rankings WHERE player_id = $1 AND period_id = $2`

	ranking, err := scanRanking(r.db.QueryRowContext(ctx, query, playerID, periodID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerRankingNotFound
		}
		return nil, fmt.Errorf("failed to scan ranking for player %d in period %d: %w", playerID, periodID, err)
	}
	return ranking, nil
}

func (r *postgresPlayerRankingRepository) ListByPeriod(ctx context.Context, periodID int, state *string) ([]*models.PlayerRanking, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT pr.id, pr.player_id, pr.period_id, pr.total_points, pr.tournaments_played,
		       pr.best_finish, pr.ranking_position, pr.previous_position, pr.updated_at
		FROM player_rankings pr`)

	args := []interface{}{periodID}
	if state != nil {
		queryBuilder.WriteString(`
		JOIN players p ON p.id = pr.player_id
		WHERE pr.period_id = $1 AND p.state = $2`)
		args = append(args, *state)
	} else {
		queryBuilder.WriteString(`
		WHERE pr.period_id = $1`)
	}
	queryBuilder.WriteString(" ORDER BY pr.player_id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings for period %d: %w", periodID, err)
	}
	defer rows.Close()

	rankings := make([]*models.PlayerRanking, 0)
	for rows.Next() {
		ranking, scanErr := scanRanking(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", scanErr)
		}
		rankings = append(rankings, ranking)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during ranking rows iteration: %w", err)
	}
	return rankings, nil
}

func (r *postgresPlayerRankingRepository) UpdatePosition(ctx context.Context, id int, position int, previous *int) error {
	query := `
		UPDATE player_rankings
		SET ranking_position = $1, previous_position = $2, updated_at = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, position, previous, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update position for ranking %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerRankingNotFound)
}

func (r *postgresPlayerRankingRepository) ListLeaderboard(ctx context.Context, periodID int, state *string, limit, offset int) ([]*models.PlayerRanking, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT pr.id, pr.player_id, pr.period_id, pr.total_points, pr.tournaments_played,
		       pr.best_finish, pr.ranking_position, pr.previous_position, pr.updated_at,
		       p.state
		FROM player_rankings pr
		JOIN players p ON p.id = pr.player_id
		WHERE pr.period_id = $1 AND pr.ranking_position IS NOT NULL`)

	args := []interface{}{periodID}
	if state != nil {
		queryBuilder.WriteString(" AND p.state = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *state)
	}
	queryBuilder.WriteString(" ORDER BY pr.ranking_position ASC")
	queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(len(args)+1))
	args = append(args, limit)
	queryBuilder.WriteString(" OFFSET $" + strconv.Itoa(len(args)+1))
	args = append(args, offset)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard for period %d: %w", periodID, err)
	}
	defer rows.Close()

	rankings := make([]*models.PlayerRanking, 0)
	for rows.Next() {
		ranking := &models.PlayerRanking{}
		if scanErr := rows.Scan(
			&ranking.ID,
			&ranking.PlayerID,
			&ranking.PeriodID,
			&ranking.TotalPoints,
			&ranking.TournamentsPlayed,
			&ranking.BestFinish,
			&ranking.RankingPosition,
			&ranking.PreviousPosition,
			&ranking.UpdatedAt,
			&ranking.PlayerState,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", scanErr)
		}
		rankings = append(rankings, ranking)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during leaderboard rows iteration: %w", err)
	}
	return rankings, nil
}

func (r *postgresPlayerRankingRepository) handleRankingError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "player_rankings_player_id_fkey":
			return ErrPlayerRankingPlayerInvalid
		case "player_rankings_period_id_fkey":
			return ErrPlayerRankingPeriodInvalid
		}
	}
	return err
}
