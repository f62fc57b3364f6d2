package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TargetType is the direction of change a goal asks for.
type TargetType string

const (
	TargetMore TargetType = "MORE"
	TargetLess TargetType = "LESS"
)

var (
	ErrEmptyTitle         = errors.New("goal title cannot be empty")
	ErrInvalidTargetType  = errors.New("target type must be MORE or LESS")
	ErrNonPositiveTarget  = errors.New("target minutes must be greater than zero")
	ErrMissingTargetValue = errors.New("goal target is required")
)

func (t TargetType) Valid() bool {
	return t == TargetMore || t == TargetLess
}

// Target is what a goal measures. It is one of GeneralTarget, CategoryTarget
// or QuantifiedTarget; only QuantifiedTarget has measurable daily progress.
type Target interface {
	isTarget()
}

// GeneralTarget is a goal with no category attached.
type GeneralTarget struct{}

// CategoryTarget names a category without a daily minute target.
type CategoryTarget struct {
	Category Category
}

// QuantifiedTarget is a daily minute target for one category.
type QuantifiedTarget struct {
	Category Category
	Minutes  int
}

func (GeneralTarget) isTarget()    {}
func (CategoryTarget) isTarget()   {}
func (QuantifiedTarget) isTarget() {}

// Goal is a standing directional target. AIAdvice is the only field mutated
// after creation; an empty value means no advice has arrived yet.
type Goal struct {
	ID          string
	Title       string
	Description string
	TargetType  TargetType
	Target      Target
	AIAdvice    string
}

// NewGoal validates the input and returns a goal with a fresh ID.
func NewGoal(title, description string, targetType TargetType, target Target) (Goal, error) {
	if target == nil {
		target = GeneralTarget{}
	}
	g := Goal{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		TargetType:  targetType,
		Target:      target,
	}
	if err := g.Validate(); err != nil {
		return Goal{}, err
	}
	return g, nil
}

// Validate checks the goal invariants.
func (g Goal) Validate() error {
	if g.ID == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if !g.TargetType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTargetType, g.TargetType)
	}
	switch t := g.Target.(type) {
	case GeneralTarget:
	case CategoryTarget:
		if !t.Category.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
		}
	case QuantifiedTarget:
		if !t.Category.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidCategory, t.Category)
		}
		if t.Minutes <= 0 {
			return ErrNonPositiveTarget
		}
	default:
		return ErrMissingTargetValue
	}
	return nil
}

func (g Goal) GetID() string { return g.ID }

// Category returns the goal's category, if it has one.
func (g Goal) Category() (Category, bool) {
	switch t := g.Target.(type) {
	case CategoryTarget:
		return t.Category, true
	case QuantifiedTarget:
		return t.Category, true
	}
	return "", false
}

// HasAdvice reports whether coaching advice has been attached.
func (g Goal) HasAdvice() bool {
	return strings.TrimSpace(g.AIAdvice) != ""
}

// WithAdvice returns a copy of the goal carrying advice.
func (g Goal) WithAdvice(advice string) Goal {
	g.AIAdvice = advice
	return g
}

// TargetFor builds the right Target variant from optional parts. Minutes
// without a category carry no meaning and are dropped.
func TargetFor(category Category, minutes int) Target {
	switch {
	case category == "":
		return GeneralTarget{}
	case minutes > 0:
		return QuantifiedTarget{Category: category, Minutes: minutes}
	default:
		return CategoryTarget{Category: category}
	}
}

type goalJSON struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	TargetType     TargetType `json:"targetType"`
	TargetCategory Category   `json:"targetCategory,omitempty"`
	TargetMinutes  int        `json:"targetMinutes,omitempty"`
	AIAdvice       string     `json:"aiAdvice,omitempty"`
}

func (g Goal) MarshalJSON() ([]byte, error) {
	raw := goalJSON{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		TargetType:  g.TargetType,
		AIAdvice:    g.AIAdvice,
	}
	switch t := g.Target.(type) {
	case CategoryTarget:
		raw.TargetCategory = t.Category
	case QuantifiedTarget:
		raw.TargetCategory = t.Category
		raw.TargetMinutes = t.Minutes
	}
	return json.Marshal(raw)
}

func (g *Goal) UnmarshalJSON(data []byte) error {
	var raw goalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = Goal{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		TargetType:  raw.TargetType,
		Target:      TargetFor(raw.TargetCategory, raw.TargetMinutes),
		AIAdvice:    raw.AIAdvice,
	}
	return nil
}
