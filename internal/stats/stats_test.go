package stats

import (
	"testing"
	"time"

	"github.com/julianstephens/timewise/internal/constants"
	"github.com/julianstephens/timewise/internal/models"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func act(id string, c models.Category, mins int, ts time.Time) models.Activity {
	return models.Activity{ID: id, Name: id, Category: c, DurationMin: mins, Timestamp: ts}
}

func TestSameDayIsCalendarEquality(t *testing.T) {
	ref := at(2025, 3, 5, 0, 30)
	tests := []struct {
		name string
		ts   time.Time
		want bool
	}{
		{"same morning", at(2025, 3, 5, 8, 0), true},
		{"last minute of day", at(2025, 3, 5, 23, 59), true},
		{"previous evening within 24h", at(2025, 3, 4, 23, 0), false},
		{"next day", at(2025, 3, 6, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameDay(tt.ts, ref); got != tt.want {
				t.Errorf("SameDay(%v, %v) = %v, want %v", tt.ts, ref, got, tt.want)
			}
		})
	}
}

func TestSameDayUsesReferenceLocation(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	// 02:00 UTC on Mar 6 is still Mar 5 in New York
	ts := at(2025, 3, 6, 2, 0)
	ref := time.Date(2025, 3, 5, 12, 0, 0, 0, ny)
	if !SameDay(ts, ref) {
		t.Error("expected timestamp to fall on the reference's local date")
	}
}

func TestBreakdownSumsAndSorts(t *testing.T) {
	day := at(2025, 3, 5, 9, 0)
	activities := []models.Activity{
		act("a", models.CategoryWork, 30, day),
		act("b", models.CategoryStudy, 60, day),
		act("c", models.CategoryWork, 30, day),
		act("d", models.CategorySleep, 60, day),
		act("e", models.CategoryOther, 5, day),
	}

	got := Breakdown(activities)
	want := []CategoryTotal{
		{models.CategoryWork, 60},  // first encountered among the 60s
		{models.CategoryStudy, 60}, // then Study
		{models.CategorySleep, 60},
		{models.CategoryOther, 5},
	}
	if len(got) != len(want) {
		t.Fatalf("Breakdown() returned %d groups, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Breakdown()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	sum := 0
	for _, ct := range got {
		sum += ct.Minutes
	}
	if sum != TotalMinutes(activities) {
		t.Errorf("breakdown sum %d != total %d", sum, TotalMinutes(activities))
	}
}

func TestBreakdownEmpty(t *testing.T) {
	if got := Breakdown(nil); len(got) != 0 {
		t.Errorf("Breakdown(nil) = %+v, want empty", got)
	}
}

func TestDay(t *testing.T) {
	today := at(2025, 3, 5, 18, 0)
	activities := []models.Activity{
		act("yesterday", models.CategoryWork, 120, at(2025, 3, 4, 22, 0)),
		act("morning", models.CategoryStudy, 45, at(2025, 3, 5, 7, 0)),
		act("evening", models.CategoryEntertainment, 30, at(2025, 3, 5, 20, 0)),
	}

	summary := Day(activities, today)
	if summary.TotalMinutes != 75 {
		t.Errorf("TotalMinutes = %d, want 75", summary.TotalMinutes)
	}
	if len(summary.Activities) != 2 || summary.Activities[0].ID != "morning" {
		t.Errorf("Activities = %+v", summary.Activities)
	}
	if !summary.Date.Equal(at(2025, 3, 5, 0, 0)) {
		t.Errorf("Date = %v", summary.Date)
	}

	newest := NewestFirst(summary.Activities)
	if newest[0].ID != "evening" || newest[1].ID != "morning" {
		t.Errorf("NewestFirst order = %s, %s", newest[0].ID, newest[1].ID)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		want time.Time
	}{
		{"monday", at(2025, 3, 3, 15, 0), at(2025, 3, 3, 0, 0)},
		{"wednesday goes back two days", at(2025, 3, 5, 10, 30), at(2025, 3, 3, 0, 0)},
		{"saturday", at(2025, 3, 8, 23, 59), at(2025, 3, 3, 0, 0)},
		{"sunday goes back six days", at(2025, 3, 9, 12, 0), at(2025, 3, 3, 0, 0)},
		{"across a month boundary", at(2025, 3, 1, 9, 0), at(2025, 2, 24, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.ts)
			if !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.ts, got, tt.want)
			}
			if got.Weekday() != time.Monday {
				t.Errorf("WeekStart(%v) is a %v", tt.ts, got.Weekday())
			}
		})
	}
}

func TestWeeks(t *testing.T) {
	activities := []models.Activity{
		act("old", models.CategoryWork, 60, at(2025, 2, 26, 9, 0)),
		act("mon", models.CategoryStudy, 30, at(2025, 3, 3, 9, 0)),
		act("wed", models.CategoryWork, 90, at(2025, 3, 5, 9, 0)),
		act("sun", models.CategorySleep, 480, at(2025, 3, 9, 1, 0)),
	}

	weeks := Weeks(activities, time.UTC)
	if len(weeks) != 2 {
		t.Fatalf("got %d weeks, want 2", len(weeks))
	}

	recent := weeks[0]
	if recent.Key() != "2025-03-03" || weeks[1].Key() != "2025-02-24" {
		t.Fatalf("week order = %s, %s; want most recent first", recent.Key(), weeks[1].Key())
	}
	if !recent.End.Equal(EndOfDay(at(2025, 3, 9, 0, 0))) {
		t.Errorf("End = %v, want end of Sunday", recent.End)
	}
	if recent.TotalMinutes != 600 {
		t.Errorf("TotalMinutes = %d, want 600", recent.TotalMinutes)
	}
	if recent.Breakdown[0].Category != models.CategorySleep {
		t.Errorf("top category = %s, want Sleep", recent.Breakdown[0].Category)
	}

	if len(recent.Trend) != constants.DaysPerWeek {
		t.Fatalf("trend has %d entries, want 7", len(recent.Trend))
	}
	wantMinutes := []int{30, 0, 90, 0, 0, 0, 480}
	wantLabels := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	trendSum := 0
	for i, day := range recent.Trend {
		if day.Minutes != wantMinutes[i] {
			t.Errorf("trend[%d] = %d, want %d", i, day.Minutes, wantMinutes[i])
		}
		if day.Label != wantLabels[i] {
			t.Errorf("trend[%d] label = %q, want %q", i, day.Label, wantLabels[i])
		}
		trendSum += day.Minutes
	}
	if trendSum != recent.TotalMinutes {
		t.Errorf("trend sum %d != week total %d", trendSum, recent.TotalMinutes)
	}
}

func TestWeeksEmpty(t *testing.T) {
	if weeks := Weeks(nil, time.UTC); len(weeks) != 0 {
		t.Errorf("Weeks(nil) = %d weeks, want 0", len(weeks))
	}
}

func TestRecentContext(t *testing.T) {
	now := at(2025, 3, 5, 12, 0)

	t.Run("empty window returns sentinel", func(t *testing.T) {
		activities := []models.Activity{
			act("today", models.CategoryWork, 60, at(2025, 3, 5, 8, 0)),
			act("too old", models.CategoryWork, 60, at(2025, 3, 1, 23, 59)),
		}
		got := RecentContext(activities, now)
		if got != constants.NoRecentDataSentinel {
			t.Errorf("RecentContext() = %q, want sentinel", got)
		}
	})

	t.Run("top three per day oldest first", func(t *testing.T) {
		activities := []models.Activity{
			act("y1", models.CategoryStudy, 90, at(2025, 3, 4, 10, 0)),
			act("d1", models.CategoryWork, 240, at(2025, 3, 2, 0, 0)),
			act("d2", models.CategoryStudy, 30, at(2025, 3, 2, 12, 0)),
			act("d3", models.CategorySleep, 60, at(2025, 3, 2, 22, 0)),
			act("d4", models.CategoryChores, 10, at(2025, 3, 2, 23, 0)),
			act("today", models.CategoryOther, 500, at(2025, 3, 5, 0, 0)),
		}
		got := RecentContext(activities, now)
		want := "Mar 2: Work: 240m, Sleep: 60m, Study: 30m\nMar 4: Study: 90m"
		if got != want {
			t.Errorf("RecentContext() =\n%q\nwant\n%q", got, want)
		}
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		start, end := RecentWindow(now)
		if !start.Equal(at(2025, 3, 2, 0, 0)) {
			t.Errorf("start = %v", start)
		}
		activities := []models.Activity{
			act("first", models.CategoryWork, 1, start),
			act("last", models.CategoryWork, 2, end),
		}
		got := RecentContext(activities, now)
		want := "Mar 2: Work: 1m\nMar 4: Work: 2m"
		if got != want {
			t.Errorf("RecentContext() = %q, want %q", got, want)
		}
	})
}

func TestGoalProgress(t *testing.T) {
	now := at(2025, 3, 5, 20, 0)
	activities := []models.Activity{
		act("a", models.CategorySocialMedia, 45, at(2025, 3, 5, 9, 0)),
		act("b", models.CategorySocialMedia, 30, at(2025, 3, 5, 19, 0)),
		act("c", models.CategoryWork, 300, at(2025, 3, 5, 10, 0)),
		act("yesterday", models.CategorySocialMedia, 200, at(2025, 3, 4, 10, 0)),
	}

	t.Run("over limit is clamped and reports overage", func(t *testing.T) {
		goal := models.Goal{
			ID: "g", Title: "Less scrolling", TargetType: models.TargetLess,
			Target: models.QuantifiedTarget{Category: models.CategorySocialMedia, Minutes: 60},
		}
		p, ok := GoalProgress(goal, activities, now)
		if !ok {
			t.Fatal("expected progress for a quantified goal")
		}
		if p.CurrentMinutes != 75 {
			t.Errorf("CurrentMinutes = %d, want 75", p.CurrentMinutes)
		}
		if p.Percentage != 100 {
			t.Errorf("Percentage = %d, want 100", p.Percentage)
		}
		if p.RawPercentage != 125 {
			t.Errorf("RawPercentage = %d, want 125", p.RawPercentage)
		}
		if p.Overage != 15 || !p.OverLimit() {
			t.Errorf("Overage = %d, OverLimit = %v; want 15, true", p.Overage, p.OverLimit())
		}
	})

	t.Run("more goal partially met", func(t *testing.T) {
		goal := models.Goal{
			ID: "g", Title: "Study", TargetType: models.TargetMore,
			Target: models.QuantifiedTarget{Category: models.CategoryStudy, Minutes: 90},
		}
		study := append(activities, act("s", models.CategoryStudy, 30, at(2025, 3, 5, 8, 0)))
		p, ok := GoalProgress(goal, study, now)
		if !ok {
			t.Fatal("expected progress")
		}
		if p.Percentage != 33 || p.Overage != 0 || p.OverLimit() {
			t.Errorf("progress = %+v", p)
		}
	})

	t.Run("more goal exceeded is not over limit", func(t *testing.T) {
		goal := models.Goal{
			ID: "g", Title: "Work", TargetType: models.TargetMore,
			Target: models.QuantifiedTarget{Category: models.CategoryWork, Minutes: 240},
		}
		p, _ := GoalProgress(goal, activities, now)
		if p.Overage != 60 || p.OverLimit() {
			t.Errorf("Overage = %d, OverLimit = %v", p.Overage, p.OverLimit())
		}
	})

	t.Run("goals without a quantified target report no progress", func(t *testing.T) {
		for _, target := range []models.Target{
			models.GeneralTarget{},
			models.CategoryTarget{Category: models.CategorySocialMedia},
		} {
			goal := models.Goal{ID: "g", Title: "x", TargetType: models.TargetLess, Target: target}
			if _, ok := GoalProgress(goal, activities, now); ok {
				t.Errorf("GoalProgress(%T) reported progress", target)
			}
		}
	})
}

func TestShare(t *testing.T) {
	if got := Share(1, 3); got != 33 {
		t.Errorf("Share(1,3) = %d", got)
	}
	if got := Share(5, 0); got != 0 {
		t.Errorf("Share(5,0) = %d", got)
	}
}
