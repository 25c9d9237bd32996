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

var ErrPointsHistoryInvalidRef = errors.New("points history references an unknown player, tournament, category or period")

type PointsHistoryRepository interface {
	Create(ctx context.Context, exec SQLExecutor, entry *models.RankingPointsHistory) error
	// DeleteByPlayerAndPeriod clears a player's ledger for one period so an
	// aggregation run can write the authoritative replacement.
	DeleteByPlayerAndPeriod(ctx context.Context, exec SQLExecutor, playerID, periodID int) error
	ListByPlayer(ctx context.Context, playerID int, periodID *int, limit int) ([]*models.RankingPointsHistory, error)
	CountByPlayerAndPeriod(ctx context.Context, playerID, periodID int) (int, error)
}

type postgresPointsHistoryRepository struct {
	db *sql.DB
}

func NewPostgresPointsHistoryRepository(db *sql.DB) PointsHistoryRepository {
	return &postgresPointsHistoryRepository{db: db}
}

func (r *postgresPointsHistoryRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPointsHistoryRepository) Create(ctx context.Context, exec SQLExecutor, entry *models.RankingPointsHistory) error {
	executor := r.getExecutor(exec)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO ranking_points_history
			(player_id, tournament_id, category_id, period_id, points_earned,
			 finish_position, total_participants, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		entry.PlayerID,
		entry.TournamentID,
		entry.CategoryID,
		entry.PeriodID,
		entry.PointsEarned,
		entry.FinishPosition,
		entry.TotalParticipants,
		entry.CreatedAt,
	).Scan(&entry.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrPointsHistoryInvalidRef
		}
		return fmt.Errorf("failed to create points history entry: %w", err)
	}
	return nil
}

func (r *postgresPointsHistoryRepository) DeleteByPlayerAndPeriod(ctx context.Context, exec SQLExecutor, playerID, periodID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM ranking_points_history WHERE player_id = $1 AND period_id = $2`

	// Zero rows deleted is fine: the player may not have scored yet.
	if _, err := executor.ExecContext(ctx, query, playerID, periodID); err != nil {
		return fmt.Errorf("failed to delete points history for player %d in period %d: %w", playerID, periodID, err)
	}
	return nil
}

func (r *postgresPointsHistoryRepository) ListByPlayer(ctx context.Context, playerID int, periodID *int, limit int) ([]*models.RankingPointsHistory, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, player_id, tournament_id, category_id, period_id,
		       points_earned, finish_position, total_participants, created_at
		FROM ranking_points_history
		WHERE player_id = $1`)

	args := []interface{}{playerID}
	if periodID != nil {
		queryBuilder.WriteString(" AND period_id = $")
		queryBuilder.WriteString(strconv.Itoa(len(args) + 1))
		args = append(args, *periodID)
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")
	queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(len(args)+1))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query points history for player %d: %w", playerID, err)
	}
	defer rows.Close()

	entries := make([]*models.RankingPointsHistory, 0)
	for rows.Next() {
		var entry models.RankingPointsHistory
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.PlayerID,
			&entry.TournamentID,
			&entry.CategoryID,
			&entry.PeriodID,
			&entry.PointsEarned,
			&entry.FinishPosition,
			&entry.TotalParticipants,
			&entry.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan points history row: %w", scanErr)
		}
		entries = append(entries, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during points history rows iteration: %w", err)
	}
	return entries, nil
}

func (r *postgresPointsHistoryRepository) CountByPlayerAndPeriod(ctx context.Context, playerID, periodID int) (int, error) {
	query := `SELECT COUNT(*) FROM ranking_points_history WHERE player_id = $1 AND period_id = $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, playerID, periodID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count points history for player %d in period %d: %w", playerID, periodID, err)
	}
	return count, nil
}
