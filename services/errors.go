package services

import "errors"

// Shared service-level errors, mapped onto HTTP statuses by the handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrPeriodNotFound     = errors.New("ranking period not found")
	ErrRankingNotFound    = errors.New("player ranking not found")
	ErrNoActivePeriod     = errors.New("no active ranking period")

	ErrMatchAlreadyCompleted  = errors.New("match result has already been recorded")
	ErrMatchNotScoreable      = errors.New("match cannot be scored in its current status")
	ErrMatchInvalidWinnerSide = errors.New("winner side must be 1 or 2")
	ErrMatchSideVacant        = errors.New("winning side has no players assigned")

	ErrPeriodAlreadyClosed = errors.New("ranking period is already closed")
)
