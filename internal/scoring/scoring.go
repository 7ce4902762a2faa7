package scoring

import (
	"math"
	"time"
)

// Rule holds the scoring constants. MaxPoints is the ceiling for an
// instant correct answer; TimeBonusWeight is the fraction of MaxPoints
// that decays linearly with response time. With weight 0.5 and max 1000
// an instant answer earns 1000, an answer at the buzzer earns 500.
type Rule struct {
	MaxPoints       int
	TimeBonusWeight float64
}

func DefaultRule() Rule {
	return Rule{MaxPoints: 1000, TimeBonusWeight: 0.5}
}

// Score maps a server-measured response time to points.
//
// Wrong answers and answers at or past the limit earn 0. Correct
// in-time answers earn base points plus a bonus that decays linearly
// with elapsed time, scaled by the question's difficulty multiplier.
// The bonus genuinely decays: two correct answers at different
// latencies earn different points.
func (r Rule) Score(responseTime, limit time.Duration, correct bool, difficultyMultiplier float64) int {
	if !correct || limit <= 0 || responseTime >= limit || responseTime < 0 {
		return 0
	}
	bonusBudget := float64(r.MaxPoints) * r.TimeBonusWeight
	base := float64(r.MaxPoints) - bonusBudget
	remaining := 1.0 - float64(responseTime)/float64(limit)
	earned := (base + bonusBudget*remaining) * difficultyMultiplier
	if earned < 0 {
		return 0
	}
	return int(math.Round(earned))
}
