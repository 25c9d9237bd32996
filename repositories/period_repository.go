package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/pbfed/ranking-engine/models"
)

var (
	ErrPeriodNotFound = errors.New("ranking period not found")
	ErrNoActivePeriod = errors.New("no active ranking period")
	// ErrActivePeriodConflict surfaces the partial unique index on
	// status='active': a concurrent caller won the race to create the
	// period, so re-fetching is the correct response.
	ErrActivePeriodConflict = errors.New("an active ranking period already exists")
)

type PeriodRepository interface {
	Create(ctx context.Context, period *models.RankingPeriod) error
	GetByID(ctx context.Context, id int) (*models.RankingPeriod, error)
	GetActive(ctx context.Context) (*models.RankingPeriod, error)
	List(ctx context.Context) ([]*models.RankingPeriod, error)
	UpdateStatus(ctx context.Context, id int, status models.PeriodStatus) error
}

type postgresPeriodRepository struct {
	db *sql.DB
}

func NewPostgresPeriodRepository(db *sql.DB) PeriodRepository {
	return &postgresPeriodRepository{db: db}
}

const periodColumns = `id, name, start_date, end_date, status, created_at`

func scanPeriod(row interface{ Scan(...interface{}) error }) (*models.RankingPeriod, error) {
	p := &models.RankingPeriod{}
	err := row.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresPeriodRepository) Create(ctx context.Context, period *models.RankingPeriod) error {
	query := `
		INSERT INTO ranking_periods (name, start_date, end_date, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		period.Name,
		period.StartDate,
		period.EndDate,
		period.Status,
	).Scan(&period.ID, &period.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			// ranking_periods_one_active_idx: partial unique index on status
			// restricted to 'active'.
			return ErrActivePeriodConflict
		}
		return fmt.Errorf("failed to create ranking period: %w", err)
	}
	return nil
}

func (r *postgresPeriodRepository) GetByID(ctx context.Context, id int) (*models.RankingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM ranking_periods WHERE id = $1`

	p, err := scanPeriod(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to scan ranking period by id %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresPeriodRepository) GetActive(ctx context.Context) (*models.RankingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM ranking_periods WHERE status = $1`

	p, err := scanPeriod(r.db.QueryRowContext(ctx, query, models.PeriodStatusActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActivePeriod
		}
		return nil, fmt.Errorf("failed to scan active ranking period: %w", err)
	}
	return p, nil
}

func (r *postgresPeriodRepository) List(ctx context.Context) ([]*models.RankingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM ranking_periods ORDER BY start_date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking periods: %w", err)
	}
	defer rows.Close()

	periods := make([]*models.RankingPeriod, 0)
	for rows.Next() {
		p, scanErr := scanPeriod(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan ranking period row: %w", scanErr)
		}
		periods = append(periods, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during ranking period rows iteration: %w", err)
	}
	return periods, nil
}

func (r *postgresPeriodRepository) UpdateStatus(ctx context.Context, id int, status models.PeriodStatus) error {
	query := `UPDATE ranking_periods SET status = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update ranking period %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrPeriodNotFound)
}
