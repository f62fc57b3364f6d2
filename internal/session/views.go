package session

import (
	"github.com/julianstephens/timewise/internal/models"
	"github.com/julianstephens/timewise/internal/stats"
)

// GoalStatus pairs a goal with today's progress. HasProgress is false for
// goals without a quantified target.
type GoalStatus struct {
	Goal        models.Goal
	Progress    stats.Progress
	HasProgress bool
}

// Today summarizes the current calendar day.
func (s *Session) Today() stats.DaySummary {
	return stats.Day(s.Activities().Items(), s.Now())
}

// Weeks buckets every activity into Monday-start weeks, most recent first.
func (s *Session) Weeks() []stats.Week {
	return stats.Weeks(s.Activities().Items(), s.loc)
}

// RecentContext summarizes the three days before today.
func (s *Session) RecentContext() string {
	return stats.RecentContext(s.Activities().Items(), s.Now())
}

// GoalStatuses reports today's progress for every goal, in display order.
func (s *Session) GoalStatuses() []GoalStatus {
	activities := s.Activities().Items()
	goals := s.Goals().Items()
	now := s.Now()

	out := make([]GoalStatus, 0, len(goals))
	for _, g := range goals {
		p, ok := stats.GoalProgress(g, activities, now)
		out = append(out, GoalStatus{Goal: g, Progress: p, HasProgress: ok})
	}
	return out
}
