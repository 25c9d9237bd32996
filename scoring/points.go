package scoring

import (
	"errors"
	"math"

	"github.com/pbfed/ranking-engine/models"
)

var (
	// ErrFieldTooSmall marks categories that cannot be scored: a field of
	// one collapses the logarithmic scaling to zero, so callers skip the
	// category instead of persisting degenerate points.
	ErrFieldTooSmall = errors.New("field size must be at least 2 to score a category")

	ErrInvalidFinishPosition = errors.New("finish position must be at least 1")
)

// referenceFieldSize is the field at which scaling is exactly 1.0.
const referenceFieldSize = 8

var typeMultipliers = map[models.TournamentType]float64{
	models.TournamentTypeLocal:    1.0,
	models.TournamentTypeRegional: 1.5,
	models.TournamentTypeState:    2.0,
	models.TournamentTypeNational: 3.0,
	models.TournamentTypePro:      4.0,
}

// TypeMultiplier returns the fixed tier weight; unknown types score as
// local.
func TypeMultiplier(t models.TournamentType) float64 {
	if m, ok := typeMultipliers[t]; ok {
		return m
	}
	return 1.0
}

// BasePoints maps a finish position onto the open-ended staircase, with a
// participation floor of 5 for anyone eliminated past the 64 bucket.
func BasePoints(finishPosition int) int {
	switch {
	case finishPosition == 1:
		return 100
	case finishPosition == 2:
		return 70
	case finishPosition <= 4:
		return 50
	case finishPosition <= 8:
		return 35
	case finishPosition <= 16:
		return 25
	case finishPosition <= 32:
		return 15
	case finishPosition <= 64:
		return 10
	default:
		return 5
	}
}

// FieldScaling scales points by field size relative to an 8-player draw:
// log10(n)/log10(8), so smaller fields scale down and larger fields up with
// diminishing returns.
func FieldScaling(totalParticipants int) float64 {
	return math.Log10(float64(totalParticipants)) / math.Log10(referenceFieldSize)
}

// CalculatePoints converts a finish into ranked points:
// round(base × typeMultiplier × rankingMultiplier × fieldScaling), floored
// at zero. Pure and deterministic.
func CalculatePoints(tournamentType models.TournamentType, totalParticipants, finishPosition int, rankingMultiplier float64) (int, error) {
	if totalParticipants < 2 {
		return 0, ErrFieldTooSmall
	}
	if finishPosition < 1 {
		return 0, ErrInvalidFinishPosition
	}

	raw := float64(BasePoints(finishPosition)) *
		TypeMultiplier(tournamentType) *
		rankingMultiplier *
		FieldScaling(totalParticipants)

	points := int(math.Round(raw))
	if points < 0 {
		points = 0
	}
	return points, nil
}
