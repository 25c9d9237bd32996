package models

import "time"

// TournamentType is the fixed tier vocabulary used for points scaling.
type TournamentType string

const (
	TournamentTypeLocal    TournamentType = "local"
	TournamentTypeRegional TournamentType = "regional"
	TournamentTypeState    TournamentType = "state"
	TournamentTypeNational TournamentType = "national"
	TournamentTypePro      TournamentType = "pro"
)

type TournamentStatus string

const (
	TournamentStatusUpcoming     TournamentStatus = "upcoming"
	TournamentStatusRegistration TournamentStatus = "registration"
	TournamentStatusActive       TournamentStatus = "active"
	TournamentStatusCompleted    TournamentStatus = "completed"
	TournamentStatusCanceled     TournamentStatus = "canceled"
)

// Tournament is read-only input to the ranking engine: the engine reads its
// scoring attributes and never mutates the row.
type Tournament struct {
	ID                int              `json:"id" db:"id"`
	Name              string           `json:"name" db:"name"`
	Type              TournamentType   `json:"type" db:"type"`
	RankingEligible   bool             `json:"ranking_eligible" db:"ranking_eligible"`
	RankingMultiplier float64          `json:"ranking_multiplier" db:"ranking_multiplier"`
	State             *string          `json:"state,omitempty" db:"state"`
	StartDate         time.Time        `json:"start_date" db:"start_date"`
	EndDate           time.Time        `json:"end_date" db:"end_date"`
	Status            TournamentStatus `json:"status" db:"status"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
}
