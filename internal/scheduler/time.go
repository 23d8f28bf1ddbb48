package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Time is a minute of the day.
type Time struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// NewTime validates and returns a Time.
func NewTime(hour, minute int) (Time, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Time{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, hour, minute)
	}
	return Time{Hour: hour, Minute: minute}, nil
}

// ParseTime parses "HH:MM" (a single-digit hour is accepted).
func ParseTime(s string) (Time, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(mm) != 2 || hh == "" || len(hh) > 2 || !digits(hh) || !digits(mm) {
		return Time{}, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidTime, s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return Time{}, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidTime, s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return Time{}, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidTime, s)
	}
	return NewTime(hour, minute)
}

// TimeOf returns the minute of day of t in t's location.
func TimeOf(t time.Time) Time {
	return Time{Hour: t.Hour(), Minute: t.Minute()}
}

// String formats the time as HH:MM.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t is earlier in the day than u.
func (t Time) Before(u Time) bool {
	if t.Hour != u.Hour {
		return t.Hour < u.Hour
	}
	return t.Minute < u.Minute
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
