// Package points maps an emission-savings percentage onto reward point
// awards and penalties for a single goal.
package points

import "math"

// Outcome is the decision for one goal in one reconciliation pass. When
// Penalty is set, PointDelta is the amount to subtract from the user's global
// ledger; the goal-local counter is never touched on the penalty path.
type Outcome struct {
	PointDelta int  `json:"point_delta"`
	Penalty    bool `json:"penalty"`
}

// Reconcile applies the tiered award policy. Tier boundaries are half-open:
// a percentage of exactly 10 lands in the [10,20) tier. Percentages of 50 or
// more award exactly enough to reach the cap; there is no separate handling
// above 100. Negative percentages are a regression and cost round(cap/64).
func Reconcile(pointCap int, percent float64, alreadyEarned int) Outcome {
	switch {
	case percent < 0:
		return Outcome{PointDelta: share(pointCap, 64), Penalty: true}
	case percent < 10:
		return Outcome{PointDelta: share(pointCap, 32)}
	case percent < 20:
		return Outcome{PointDelta: share(pointCap, 16)}
	case percent < 30:
		return Outcome{PointDelta: share(pointCap, 8)}
	case percent < 40:
		return Outcome{PointDelta: share(pointCap, 4)}
	case percent < 50:
		return Outcome{PointDelta: share(pointCap, 2)}
	default:
		return Outcome{PointDelta: pointCap - alreadyEarned}
	}
}

func share(cap, divisor int) int {
	return int(math.Round(float64(cap) / float64(divisor)))
}
