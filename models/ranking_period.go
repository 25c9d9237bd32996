package models

import "time"

type PeriodStatus string

const (
	PeriodStatusActive PeriodStatus = "active"
	PeriodStatusClosed PeriodStatus = "closed"
)

// RankingPeriod is the bounded date range points accumulate against. A
// partial unique index on status guarantees at most one active row; closed
// periods are retained for history.
type RankingPeriod struct {
	ID        int          `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	StartDate time.Time    `json:"start_date" db:"start_date"`
	EndDate   time.Time    `json:"end_date" db:"end_date"`
	Status    PeriodStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}
