package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawRounds(t *testing.T) {
	tests := []struct {
		participants int
		want         int
	}{
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
		{16, 4},
		{17, 5},
		{33, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DrawRounds(tt.participants), "%d participants", tt.participants)
	}
}

func TestDrawSize(t *testing.T) {
	tests := []struct {
		participants int
		want         int
	}{
		{2, 2},
		{3, 4},
		{8, 8},
		{9, 16},
		{16, 16},
		{20, 32},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DrawSize(tt.participants), "%d participants", tt.participants)
	}
}

func TestPositionForRound(t *testing.T) {
	tests := []struct {
		name         string
		participants int
		highestRound int
		want         int
	}{
		{"semifinal loss in 16 draw", 16, 3, 4},
		{"quarterfinal loss in 16 draw", 16, 2, 8},
		{"first round loss in 16 draw", 16, 1, 16},
		{"semifinal loss in 8 draw", 8, 2, 4},
		{"first round loss in 8 draw", 8, 1, 8},
		{"first round loss in uneven 12 draw", 12, 1, 16},
		{"round beyond the draw clamps to runner-up bucket", 8, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PositionForRound(tt.participants, tt.highestRound))
		})
	}
}
