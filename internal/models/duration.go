package models

import (
	"fmt"
	"math"
	"strings"
)

// DurationUnit is the unit a duration was entered in.
type DurationUnit string

const (
	UnitMinutes DurationUnit = "minutes"
	UnitHours   DurationUnit = "hours"
)

// ToMinutes converts an entered amount to whole minutes, rounding to the
// nearest minute. Non-positive results are rejected.
func ToMinutes(value float64, unit DurationUnit) (int, error) {
	var minutes float64
	switch DurationUnit(strings.ToLower(string(unit))) {
	case UnitMinutes, "m", "min":
		minutes = value
	case UnitHours, "h", "hr":
		minutes = value * 60
	default:
		return 0, fmt.Errorf("unknown duration unit %q", unit)
	}
	rounded := int(math.Round(minutes))
	if rounded <= 0 {
		return 0, ErrNonPositiveDuration
	}
	return rounded, nil
}
