package stats

import (
	"math"
	"time"

	"github.com/julianstephens/timewise/internal/models"
)

// Progress is today's standing against a quantified goal.
type Progress struct {
	Category       models.Category
	TargetMinutes  int
	CurrentMinutes int
	// Percentage is clamped to [0, 100] for display.
	Percentage int
	// RawPercentage is unclamped and may exceed 100.
	RawPercentage int
	// Overage is how far CurrentMinutes is past the target, never negative.
	Overage int
	over    bool
}

// OverLimit is true for a LESS goal whose target has been exceeded today.
func (p Progress) OverLimit() bool {
	return p.over
}

// GoalProgress measures today's minutes in the goal's category against its
// daily target. Goals without a quantified target have no progress and the
// second return value is false; callers must not render a bar for them.
func GoalProgress(goal models.Goal, activities []models.Activity, now time.Time) (Progress, bool) {
	target, ok := goal.Target.(models.QuantifiedTarget)
	if !ok || target.Minutes <= 0 {
		return Progress{}, false
	}

	current := 0
	for _, a := range ForDay(activities, now) {
		if a.Category == target.Category {
			current += a.DurationMin
		}
	}

	raw := roundPercent(current, target.Minutes)
	p := Progress{
		Category:       target.Category,
		TargetMinutes:  target.Minutes,
		CurrentMinutes: current,
		RawPercentage:  raw,
		Percentage:     clamp(raw, 0, 100),
	}
	if current > target.Minutes {
		p.Overage = current - target.Minutes
	}
	p.over = goal.TargetType == models.TargetLess && p.Overage > 0
	return p, true
}

func roundPercent(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
