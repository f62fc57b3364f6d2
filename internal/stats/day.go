// Package stats is the aggregation engine: pure functions that turn logged
// activities and goals into day, week and goal-progress views. Nothing here
// holds state or does I/O, so results are recomputed on every read.
//
// Input is assumed to be well formed (positive durations, known categories);
// the storage layer drops records that are not before they get here.
package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/timewise/internal/models"
)

// CategoryTotal is the summed duration of one category.
type CategoryTotal struct {
	Category models.Category
	Minutes  int
}

// DaySummary is the aggregate of a single calendar day.
type DaySummary struct {
	Date         time.Time
	Activities   []models.Activity
	TotalMinutes int
	Breakdown    []CategoryTotal
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// SameDay reports whether t falls on ref's calendar date, judged in ref's
// location. This is date equality, not a rolling 24h window.
func SameDay(t, ref time.Time) bool {
	ty, tm, td := t.In(ref.Location()).Date()
	ry, rm, rd := ref.Date()
	return ty == ry && tm == rm && td == rd
}

// ForDay selects the activities logged on day's calendar date, in their
// original order.
func ForDay(activities []models.Activity, day time.Time) []models.Activity {
	var out []models.Activity
	for _, a := range activities {
		if SameDay(a.Timestamp, day) {
			out = append(out, a)
		}
	}
	return out
}

// TotalMinutes sums the durations of activities.
func TotalMinutes(activities []models.Activity) int {
	total := 0
	for _, a := range activities {
		total += a.DurationMin
	}
	return total
}

// Breakdown groups activities by category and sorts the groups by total,
// largest first. Equal totals keep the order in which their category was
// first encountered.
func Breakdown(activities []models.Activity) []CategoryTotal {
	index := make(map[models.Category]int)
	var totals []CategoryTotal
	for _, a := range activities {
		i, ok := index[a.Category]
		if !ok {
			i = len(totals)
			index[a.Category] = i
			totals = append(totals, CategoryTotal{Category: a.Category})
		}
		totals[i].Minutes += a.DurationMin
	}
	sortByMinutesDesc(totals)
	return totals
}

func sortByMinutesDesc(totals []CategoryTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Minutes > totals[j].Minutes
	})
}

// Day summarizes the calendar day containing day.
func Day(activities []models.Activity, day time.Time) DaySummary {
	todays := ForDay(activities, day)
	return DaySummary{
		Date:         StartOfDay(day),
		Activities:   todays,
		TotalMinutes: TotalMinutes(todays),
		Breakdown:    Breakdown(todays),
	}
}

// NewestFirst returns activities in reverse insertion order for display.
func NewestFirst(activities []models.Activity) []models.Activity {
	out := make([]models.Activity, len(activities))
	for i, a := range activities {
		out[len(activities)-1-i] = a
	}
	return out
}

// Share returns part as a whole-number percentage of total, 0 when total is 0.
func Share(part, total int) int {
	if total <= 0 {
		return 0
	}
	return roundPercent(part, total)
}
