package models

import (
	"fmt"
	"sort"
)

// ScheduleBlock is one daily open/close window ("HH:MM", 24h) during which a
// space accepts reservations. Blocks never cross midnight.
type ScheduleBlock struct {
	Open  string `bson:"open" json:"open"`
	Close string `bson:"close" json:"close"`
}

// Interval is a half-open [Start, End) time range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open intervals share any time. This is the
// single overlap predicate used by both the advisory availability check and
// the insert-time conflict guard, so the two layers cannot drift apart.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

const minutesPerDay = 24 * 60

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// BookingInterval computes the half-open interval claimed by a reservation
// starting at startTime ("HH:MM") and lasting durationHours whole hours. An
// interval that would run past midnight is rejected; a space day ends at 24:00.
func BookingInterval(startTime string, durationHours int) (Interval, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return Interval{}, err
	}
	if durationHours < 1 {
		return Interval{}, fmt.Errorf("duration must be at least 1 hour")
	}
	end := start + durationHours*60
	if end > minutesPerDay {
		return Interval{}, fmt.Errorf("interval %s + %dh runs past midnight", startTime, durationHours)
	}
	return Interval{Start: start, End: end}, nil
}

// WithinSchedule reports whether [start, end] fits entirely inside one of the
// declared blocks. Boundary equality counts as inside. An empty schedule means
// the space is closed for every interval.
func WithinSchedule(blocks []ScheduleBlock, iv Interval) bool {
	for _, b := range blocks {
		open, err := ParseClock(b.Open)
		if err != nil {
			continue
		}
		closeAt, err := ParseClock(b.Close)
		if err != nil {
			continue
		}
		if iv.Start >= open && iv.End <= closeAt {
			return true
		}
	}
	return false
}

// ValidateSchedule rejects malformed block lists at space create/update time:
// every block must parse, open before close, and no two blocks may overlap.
func ValidateSchedule(blocks []ScheduleBlock) error {
	type span struct{ open, close int }
	spans := make([]span, 0, len(blocks))
	for _, b := range blocks {
		open, err := ParseClock(b.Open)
		if err != nil {
			return fmt.Errorf("schedule block open: %w", err)
		}
		closeAt, err := ParseClock(b.Close)
		if err != nil {
			return fmt.Errorf("schedule block close: %w", err)
		}
		if open >= closeAt {
			return fmt.Errorf("schedule block %s-%s: open must be before close", b.Open, b.Close)
		}
		spans = append(spans, span{open, closeAt})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].open < spans[j].open })
	for i := 1; i < len(spans); i++ {
		if spans[i].open < spans[i-1].close {
			return fmt.Errorf("schedule blocks %s-%s and %s-%s overlap",
				FormatClock(spans[i-1].open), FormatClock(spans[i-1].close),
				FormatClock(spans[i].open), FormatClock(spans[i].close))
		}
	}
	return nil
}
