package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/timewise/internal/constants"
	"github.com/julianstephens/timewise/internal/models"
)

// RecentWindow returns the closed interval covering the three calendar days
// before now's date. Today is excluded.
func RecentWindow(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d-constants.RecentContextDays, 0, 0, 0, 0, now.Location())
	end := EndOfDay(time.Date(y, m, d-1, 0, 0, 0, 0, now.Location()))
	return start, end
}

// RecentContext condenses the last three days into one line per day listing
// the top three categories, e.g. "Mar 3: Work: 240m, Study: 90m, Sleep: 60m".
// Days are listed oldest first. When nothing was logged in the window the
// fixed no-data sentinel is returned instead of an empty string.
func RecentContext(activities []models.Activity, now time.Time) string {
	start, end := RecentWindow(now)

	type dayGroup struct {
		date   time.Time
		activities []models.Activity
	}
	groups := make(map[string]*dayGroup)
	for _, a := range activities {
		ts := a.Timestamp.In(now.Location())
		if ts.Before(start) || ts.After(end) {
			continue
		}
		key := ts.Format(constants.DateFormat)
		g, ok := groups[key]
		if !ok {
			g = &dayGroup{date: StartOfDay(ts)}
			groups[key] = g
		}
		g.activities = append(g.activities, a)
	}

	if len(groups) == 0 {
		return constants.NoRecentDataSentinel
	}

	days := make([]*dayGroup, 0, len(groups))
	for _, g := range groups {
		days = append(days, g)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })

	lines := make([]string, 0, len(days))
	for _, g := range days {
		top := Breakdown(g.activities)
		if len(top) > constants.RecentContextTopN {
			top = top[:constants.RecentContextTopN]
		}
		parts := make([]string, 0, len(top))
		for _, ct := range top {
			parts = append(parts, fmt.Sprintf("%s: %dm", ct.Category, ct.Minutes))
		}
		lines = append(lines, fmt.Sprintf("%s: %s", g.date.Format(constants.DayLabelFormat), strings.Join(parts, ", ")))
	}
	return strings.Join(lines, "\n")
}
