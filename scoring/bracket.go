package scoring

// DrawRounds is the number of single-elimination rounds implied by a field
// size: ceil(log2(n)). Computed with integer doubling to stay exact.
func DrawRounds(totalParticipants int) int {
	if totalParticipants < 2 {
		return 0
	}
	rounds := 0
	for size := 1; size < totalParticipants; size <<= 1 {
		rounds++
	}
	return rounds
}

// DrawSize is the smallest power of two that fits the field, i.e. the
// bracket the draw is seeded into.
func DrawSize(totalParticipants int) int {
	return 1 << DrawRounds(totalParticipants)
}

// PositionForRound buckets a mid-bracket elimination into its power-of-two
// finishing position: losing in the quarterfinals of a 16 draw yields 8
// (the 5-8 bucket), one round earlier yields 16, and so on. This is a
// deliberate coarse-graining; exact placement would need a standings table
// the bracket does not record.
func PositionForRound(totalParticipants, highestRound int) int {
	rounds := DrawRounds(totalParticipants)
	exp := rounds - highestRound + 1
	if exp < 1 {
		exp = 1
	}
	return 1 << exp
}
