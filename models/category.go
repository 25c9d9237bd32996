package models

type Discipline string

const (
	DisciplineSingles Discipline = "singles"
	DisciplineDoubles Discipline = "doubles"
	DisciplineMixed   Discipline = "mixed"
)

// TournamentCategory is one bracket within a tournament (e.g. men's singles
// 4.0). Registrations and matches hang off a category, not the tournament.
type TournamentCategory struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	Name         string     `json:"name" db:"name"`
	Discipline   Discipline `json:"discipline" db:"discipline"`
}
