package models

import (
	"errors"
	"fmt"
	"strings"
)

// Category classifies an activity. The set is closed.
type Category string

const (
	CategoryStudy         Category = "Study"
	CategoryWork          Category = "Work"
	CategorySocialMedia   Category = "Social Media"
	CategoryEntertainment Category = "Entertainment"
	CategoryFamily        Category = "Family Time"
	CategorySleep         Category = "Sleep"
	CategoryExercise      Category = "Exercise"
	CategoryChores        Category = "Chores"
	CategoryOther         Category = "Other"
)

// ErrInvalidCategory is returned for a value outside the category enumeration.
var ErrInvalidCategory = errors.New("invalid category")

// Categories lists every category in display order.
var Categories = []Category{
	CategoryStudy,
	CategoryWork,
	CategorySocialMedia,
	CategoryEntertainment,
	CategoryFamily,
	CategorySleep,
	CategoryExercise,
	CategoryChores,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// ParseCategory resolves a user supplied name case-insensitively. Dashes and
// underscores are accepted in place of spaces, so "social-media" and
// "family_time" both work.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	for _, c := range Categories {
		if strings.ToLower(string(c)) == norm {
			return c, nil
		}
	}
	// "family" is what most people type
	if norm == "family" {
		return CategoryFamily, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}
