package models

import "time"

type PlayerStatus string

const (
	PlayerStatusActive    PlayerStatus = "active"
	PlayerStatusSuspended PlayerStatus = "suspended"
	PlayerStatusInactive  PlayerStatus = "inactive"
)

// Player carries the identity attributes the engine needs: the state
// affiliation for scoped standings and the NRTP level, which is rated
// elsewhere on the platform and never computed here.
type Player struct {
	ID        int          `json:"id" db:"id"`
	FirstName string       `json:"first_name" db:"first_name"`
	LastName  string       `json:"last_name" db:"last_name"`
	State     *string      `json:"state,omitempty" db:"state"`
	NRTPLevel *float64     `json:"nrtp_level,omitempty" db:"nrtp_level"`
	Status    PlayerStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}
