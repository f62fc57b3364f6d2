package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/timewise/internal/constants"
	"github.com/julianstephens/timewise/internal/models"
)

// DayTotal is one entry of a week's daily trend.
type DayTotal struct {
	Date    time.Time
	Label   string
	Minutes int
}

// Week is a Monday to Sunday bucket of activities.
type Week struct {
	Start        time.Time // Monday 00:00
	End          time.Time // Sunday, end of day
	Activities   []models.Activity
	TotalMinutes int
	Breakdown    []CategoryTotal
	Trend        []DayTotal // always 7 entries, Monday first
}

// Key identifies the week by the date of its Monday.
func (w Week) Key() string {
	return w.Start.Format(constants.DateFormat)
}

// WeekStart returns midnight of the Monday on or before t's calendar date.
// Sunday belongs to the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	back := int(t.Weekday()) - 1
	if t.Weekday() == time.Sunday {
		back = 6
	}
	y, m, d := t.Date()
	return time.Date(y, m, d-back, 0, 0, 0, 0, t.Location())
}

// WeekEnd returns the end of the Sunday closing the week that starts at start.
func WeekEnd(start time.Time) time.Time {
	y, m, d := start.Date()
	return EndOfDay(time.Date(y, m, d+6, 0, 0, 0, 0, start.Location()))
}

// Weeks buckets activities into Monday-start weeks, judged in loc, and
// returns them most recent first.
func Weeks(activities []models.Activity, loc *time.Location) []Week {
	byKey := make(map[string]*Week)
	var order []*Week
	for _, a := range activities {
		start := WeekStart(a.Timestamp.In(loc))
		key := start.Format(constants.DateFormat)
		w, ok := byKey[key]
		if !ok {
			w = &Week{Start: start, End: WeekEnd(start)}
			byKey[key] = w
			order = append(order, w)
		}
		w.Activities = append(w.Activities, a)
	}

	weeks := make([]Week, 0, len(order))
	for _, w := range order {
		w.TotalMinutes = TotalMinutes(w.Activities)
		w.Breakdown = Breakdown(w.Activities)
		w.Trend = DailyTrend(w.Activities, w.Start)
		weeks = append(weeks, *w)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].Start.After(weeks[j].Start)
	})
	return weeks
}

// DailyTrend sums the activities for each of the 7 calendar days starting at
// weekStart. Days without activity report zero.
func DailyTrend(activities []models.Activity, weekStart time.Time) []DayTotal {
	y, m, d := weekStart.Date()
	trend := make([]DayTotal, 0, constants.DaysPerWeek)
	for i := 0; i < constants.DaysPerWeek; i++ {
		day := time.Date(y, m, d+i, 0, 0, 0, 0, weekStart.Location())
		trend = append(trend, DayTotal{
			Date:    day,
			Label:   day.Format(constants.WeekdayLabelFormat),
			Minutes: TotalMinutes(ForDay(activities, day)),
		})
	}
	return trend
}
