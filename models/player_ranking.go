package models

import "time"

// PlayerRanking is the per-(player, period) standings summary, upserted on
// every recalculation. RankingPosition is assigned by the position ranker
// after aggregation; PreviousPosition holds the value it replaced so
// consumers can render deltas.
type PlayerRanking struct {
	ID                int       `json:"id" db:"id"`
	PlayerID          int       `json:"player_id" db:"player_id"`
	PeriodID          int       `json:"period_id" db:"period_id"`
	TotalPoints       int       `json:"total_points" db:"total_points"`
	TournamentsPlayed int       `json:"tournaments_played" db:"tournaments_played"`
	BestFinish        *int      `json:"best_finish,omitempty" db:"best_finish"`
	RankingPosition   *int      `json:"ranking_position,omitempty" db:"ranking_position"`
	PreviousPosition  *int      `json:"previous_position,omitempty" db:"previous_position"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`

	// Populated by joins for state-scoped queries, not a column.
	PlayerState *string `json:"player_state,omitempty" db:"-"`
}

// PositionDelta is (previous - current): positive means the player moved up.
func (r *PlayerRanking) PositionDelta() int {
	if r.RankingPosition == nil || r.PreviousPosition == nil {
		return 0
	}
	return *r.PreviousPosition - *r.RankingPosition
}
