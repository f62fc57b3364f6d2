package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName           = errors.New("activity name cannot be empty")
	ErrNonPositiveDuration = errors.New("duration must be greater than zero")
	ErrMissingID           = errors.New("id cannot be empty")
)

// Activity is a single logged, timed event. Activities are never updated in
// place; they are created and eventually deleted by ID.
type Activity struct {
	ID          string
	Name        string
	Category    Category
	DurationMin int
	Timestamp   time.Time
}

// NewActivity validates the input and returns an activity with a fresh ID
// stamped at now.
func NewActivity(name string, category Category, durationMin int, now time.Time) (Activity, error) {
	a := Activity{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Category:    category,
		DurationMin: durationMin,
		Timestamp:   now,
	}
	if err := a.Validate(); err != nil {
		return Activity{}, err
	}
	return a, nil
}

// Validate checks the activity invariants.
func (a Activity) Validate() error {
	if a.ID == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, a.Category)
	}
	if a.DurationMin <= 0 {
		return ErrNonPositiveDuration
	}
	return nil
}

func (a Activity) GetID() string { return a.ID }

// activityJSON is the serialized shape shared with the legacy key-value
// format: timestamps are epoch milliseconds.
type activityJSON struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	Duration  int      `json:"duration"`
	Timestamp int64    `json:"timestamp"`
}

func (a Activity) MarshalJSON() ([]byte, error) {
	return json.Marshal(activityJSON{
		ID:        a.ID,
		Name:      a.Name,
		Category:  a.Category,
		Duration:  a.DurationMin,
		Timestamp: a.Timestamp.UnixMilli(),
	})
}

func (a *Activity) UnmarshalJSON(data []byte) error {
	var raw activityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Activity{
		ID:          raw.ID,
		Name:        raw.Name,
		Category:    raw.Category,
		DurationMin: raw.Duration,
		Timestamp:   time.UnixMilli(raw.Timestamp),
	}
	return nil
}
