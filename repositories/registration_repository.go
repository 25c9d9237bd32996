package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pbfed/ranking-engine/models"
)

type RegistrationRepository interface {
	ListByPlayerAndTournament(ctx context.Context, playerID, tournamentID int) ([]*models.Registration, error)
	// CountActiveByCategory is the live field size: registrations in
	// {registered, confirmed} at query time.
	CountActiveByCategory(ctx context.Context, categoryID int) (int, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) ListByPlayerAndTournament(ctx context.Context, playerID, tournamentID int) ([]*models.Registration, error) {
	query := `
		SELECT id, player_id, tournament_id, category_id, status, created_at
		FROM registrations
		WHERE player_id = $1 AND tournament_id = $2 AND status IN ($3, $4)
		ORDER BY category_id ASC`

	rows, err := r.db.QueryContext(ctx, query, playerID, tournamentID,
		models.RegistrationStatusRegistered, models.RegistrationStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations for player %d in tournament %d: %w", playerID, tournamentID, err)
	}
	defer rows.Close()

	registrations := make([]*models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if scanErr := rows.Scan(
			&reg.ID,
			&reg.PlayerID,
			&reg.TournamentID,
			&reg.CategoryID,
			&reg.Status,
			&reg.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", scanErr)
		}
		registrations = append(registrations, &reg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during registration rows iteration: %w", err)
	}
	return registrations, nil
}

func (r *postgresRegistrationRepository) CountActiveByCategory(ctx context.Context, categoryID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE category_id = $1 AND status IN ($2, $3)`

	var count int
	err := r.db.QueryRowContext(ctx, query, categoryID,
		models.RegistrationStatusRegistered, models.RegistrationStatusConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active registrations for category %d: %w", categoryID, err)
	}
	return count, nil
}
