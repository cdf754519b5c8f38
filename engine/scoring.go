package engine

const (
	MaxStars = 3

	xpPerCorrect       = 5
	highScoreThreshold = 8
	highScoreBonus     = 10
	perfectBonus       = 20
	perfectCount       = 10
)

func isPerfect(correct, total int) bool {
	return correct == perfectCount && total == perfectCount
}

// Stars maps a quiz outcome to a 1..3 star rating. Any completion earns one star.
func Stars(correct, total int) int {
	switch {
	case isPerfect(correct, total):
		return MaxStars
	case correct >= 7 && correct <= 9:
		return 2
	default:
		return 1
	}
}

// XP maps a quiz outcome to experience points. The perfect bonus stacks with
// the high score bonus.
func XP(correct, total int) int {
	if correct < 0 {
		correct = 0
	}
	xp := correct * xpPerCorrect
	if correct >= highScoreThreshold {
		xp += highScoreBonus
	}
	if isPerfect(correct, total) {
		xp += perfectBonus
	}
	return xp
}
