package models

import "time"

// RankingPointsHistory is the audit ledger of scoring events, one row per
// (player, tournament, category) within a period. An aggregation run
// replaces the player's rows for the period wholesale, so reruns converge
// instead of double-counting.
type RankingPointsHistory struct {
	ID                int       `json:"id" db:"id"`
	PlayerID          int       `json:"player_id" db:"player_id"`
	TournamentID      int       `json:"tournament_id" db:"tournament_id"`
	CategoryID        int       `json:"category_id" db:"category_id"`
	PeriodID          int       `json:"period_id" db:"period_id"`
	PointsEarned      int       `json:"points_earned" db:"points_earned"`
	FinishPosition    int       `json:"finish_position" db:"finish_position"`
	TotalParticipants int       `json:"total_participants" db:"total_participants"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}
