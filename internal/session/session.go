// Package session owns the in-memory activity and goal collections for one
// run of the application. Nothing is written back until the initial load
// has resolved, so an empty pre-load state can never overwrite stored data.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/timewise/internal/collection"
	"github.com/julianstephens/timewise/internal/constants"
	"github.com/julianstephens/timewise/internal/logger"
	"github.com/julianstephens/timewise/internal/models"
	"github.com/julianstephens/timewise/internal/storage"
)

var (
	// ErrNotLoaded is returned by every command issued before Load.
	ErrNotLoaded = errors.New("session data has not finished loading")
	// ErrUnreadable is returned by commands on a collection whose stored data
	// could not be read. Saving it would replace records it never saw.
	ErrUnreadable = errors.New("stored data could not be read, changes are disabled")
	// ErrSaveFailed wraps a failed write-back. The in-memory change stands.
	ErrSaveFailed = errors.New("failed to save changes")
)

type Session struct {
	mu          sync.Mutex
	store       storage.Provider
	now         func() time.Time
	loc         *time.Location
	loadTimeout time.Duration
	loaded      bool

	// activitiesRead and goalsRead record that each collection reflects
	// the stored data.
	activitiesRead bool
	goalsRead      bool

	activities collection.Collection[models.Activity]
	goals      collection.Collection[models.Goal]
}

type Option func(*Session)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLocation sets the timezone calendar days are judged in.
func WithLocation(loc *time.Location) Option {
	return func(s *Session) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLoadTimeout bounds the initial load.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.loadTimeout = d
		}
	}
}

func New(store storage.Provider, opts ...Option) *Session {
	s := &Session{
		store:       store,
		now:         time.Now,
		loc:         time.Local,
		loadTimeout: constants.DefaultLoadTimeout,
		activities:  collection.New[models.Activity](nil),
		goals:       collection.New[models.Goal](nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads both collections in parallel and then opens the write gate.
// It never fails: the store degrades problems to empty collections. A
// collection whose stored data could not be read stays closed to writes, and
// a later Load retries only that collection. Once both are read, Load is a
// no-op.
func (s *Session) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded && s.activitiesRead && s.goalsRead {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	var activities []models.Activity
	var goals []models.Goal
	activitiesRead, goalsRead := s.activitiesRead, s.goalsRead
	g, gctx := errgroup.WithContext(ctx)
	if !activitiesRead {
		g.Go(func() error {
			activities, activitiesRead = s.store.LoadActivities(gctx)
			return nil
		})
	}
	if !goalsRead {
		g.Go(func() error {
			goals, goalsRead = s.store.LoadGoals(gctx)
			return nil
		})
	}
	_ = g.Wait()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		logger.Warn("Load timed out, continuing with what was read", "timeout", s.loadTimeout)
	}

	// A collection that was unreadable before has had no writes, so the
	// fresh read replaces nothing the user changed.
	if !s.activitiesRead {
		s.activities = collection.New(activities)
		s.activitiesRead = activitiesRead
	}
	if !s.goalsRead {
		s.goals = collection.New(goals)
		s.goalsRead = goalsRead
	}
	s.loaded = true
	if !s.activitiesRead || !s.goalsRead {
		logger.Warn("Stored data unreadable, changes disabled",
			"activities", s.activitiesRead, "goals", s.goalsRead)
	}
	logger.Debug("Session loaded", "activities", s.activities.Len(), "goals", s.goals.Len())
}

// Loaded reports whether the initial load has resolved.
func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Degraded reports whether either collection could not be read, leaving it
// read-only until a later Load succeeds.
func (s *Session) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded && (!s.activitiesRead || !s.goalsRead)
}

// writable checks the write gate for one collection. Callers hold s.mu.
func (s *Session) writable(read bool) error {
	switch {
	case !s.loaded:
		return ErrNotLoaded
	case !read:
		return ErrUnreadable
	}
	return nil
}

// Now is the current time in the session's timezone.
func (s *Session) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *Session) Location() *time.Location {
	return s.loc
}

func (s *Session) Activities() collection.Collection[models.Activity] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activities
}

func (s *Session) Goals() collection.Collection[models.Goal] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals
}

// AddActivity logs a new activity stamped now.
func (s *Session) AddActivity(ctx context.Context, name string, category models.Category, durationMin int) (models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(s.activitiesRead); err != nil {
		return models.Activity{}, err
	}

	activity, err := models.NewActivity(name, category, durationMin, s.Now())
	if err != nil {
		return models.Activity{}, err
	}
	s.activities = s.activities.Append(activity)
	return activity, s.saveActivities(ctx)
}

// DeleteActivity removes an activity. An unknown id changes nothing and
// reports false.
func (s *Session) DeleteActivity(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(s.activitiesRead); err != nil {
		return false, err
	}

	next, ok := s.activities.Delete(id)
	if !ok {
		return false, nil
	}
	s.activities = next
	return true, s.saveActivities(ctx)
}

// AddGoal creates a goal without advice and puts it first.
func (s *Session) AddGoal(ctx context.Context, title, description string, targetType models.TargetType, target models.Target) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(s.goalsRead); err != nil {
		return models.Goal{}, err
	}

	goal, err := models.NewGoal(title, description, targetType, target)
	if err != nil {
		return models.Goal{}, err
	}
	s.goals = s.goals.Prepend(goal)
	return goal, s.saveGoals(ctx)
}

// SetGoalAdvice replaces a goal's advice in place.
func (s *Session) SetGoalAdvice(ctx context.Context, id, advice string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(s.goalsRead); err != nil {
		return false, err
	}

	goal, ok := s.goals.Get(id)
	if !ok {
		return false, nil
	}
	next, _ := s.goals.Replace(goal.WithAdvice(advice))
	s.goals = next
	return true, s.saveGoals(ctx)
}

func (s *Session) DeleteGoal(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(s.goalsRead); err != nil {
		return false, err
	}

	next, ok := s.goals.Delete(id)
	if !ok {
		return false, nil
	}
	s.goals = next
	return true, s.saveGoals(ctx)
}

func (s *Session) saveActivities(ctx context.Context) error {
	if err := s.store.SaveActivities(ctx, s.activities.Items()); err != nil {
		return fmt.Errorf("%w: activities version %d: %v", ErrSaveFailed, s.activities.Version(), err)
	}
	logger.Collection(storage.ActivitiesCollection).Records(s.activities.Len()).
		Debug("Wrote back snapshot", "version", s.activities.Version())
	return nil
}

func (s *Session) saveGoals(ctx context.Context) error {
	if err := s.store.SaveGoals(ctx, s.goals.Items()); err != nil {
		return fmt.Errorf("%w: goals version %d: %v", ErrSaveFailed, s.goals.Version(), err)
	}
	logger.Collection(storage.GoalsCollection).Records(s.goals.Len()).
		Debug("Wrote back snapshot", "version", s.goals.Version())
	return nil
}
