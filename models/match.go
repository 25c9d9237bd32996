package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusCanceled   MatchStatus = "canceled"
)

// Match is one bracket match within a tournament category. Singles uses the
// two primary slots; doubles fills the partner slots as well. WinnerSide is
// 1 or 2 once the match is completed.
type Match struct {
	ID             int         `json:"id" db:"id"`
	TournamentID   int         `json:"tournament_id" db:"tournament_id"`
	CategoryID     int         `json:"category_id" db:"category_id"`
	Side1PlayerID  *int        `json:"side1_player_id,omitempty" db:"side1_player_id"`
	Side1PartnerID *int        `json:"side1_partner_id,omitempty" db:"side1_partner_id"`
	Side2PlayerID  *int        `json:"side2_player_id,omitempty" db:"side2_player_id"`
	Side2PartnerID *int        `json:"side2_partner_id,omitempty" db:"side2_partner_id"`
	Round          int         `json:"round" db:"round"`
	Score          *string     `json:"score,omitempty" db:"score"`
	Status         MatchStatus `json:"status" db:"status"`
	WinnerSide     *int        `json:"winner_side,omitempty" db:"winner_side"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}

// PlayerIDs returns the distinct player IDs occupying the match's slots.
func (m *Match) PlayerIDs() []int {
	seen := make(map[int]bool, 4)
	ids := make([]int, 0, 4)
	for _, slot := range []*int{m.Side1PlayerID, m.Side1PartnerID, m.Side2PlayerID, m.Side2PartnerID} {
		if slot == nil || seen[*slot] {
			continue
		}
		seen[*slot] = true
		ids = append(ids, *slot)
	}
	return ids
}

// SideOf reports which side the player occupies, or 0 if they are not in
// the match.
func (m *Match) SideOf(playerID int) int {
	if (m.Side1PlayerID != nil && *m.Side1PlayerID == playerID) ||
		(m.Side1PartnerID != nil && *m.Side1PartnerID == playerID) {
		return 1
	}
	if (m.Side2PlayerID != nil && *m.Side2PlayerID == playerID) ||
		(m.Side2PartnerID != nil && *m.Side2PartnerID == playerID) {
		return 2
	}
	return 0
}
