package models

import "time"

type RegistrationStatus string

const (
	RegistrationStatusRegistered RegistrationStatus = "registered"
	RegistrationStatusConfirmed  RegistrationStatus = "confirmed"
	RegistrationStatusCancelled  RegistrationStatus = "cancelled"
	RegistrationStatusWithdrawn  RegistrationStatus = "withdrawn"
)

// Registration links a player to one tournament category. A player may hold
// several registrations per tournament, one per category entered. Field size
// is the live count of registrations in {registered, confirmed}.
type Registration struct {
	ID           int                `json:"id" db:"id"`
	PlayerID     int                `json:"player_id" db:"player_id"`
	TournamentID int                `json:"tournament_id" db:"tournament_id"`
	CategoryID   int                `json:"category_id" db:"category_id"`
	Status       RegistrationStatus `json:"status" db:"status"`
	CreatedAt    time.Time          `json:"created_at" db:"created_at"`
}
