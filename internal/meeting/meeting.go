// Package meeting defines the core domain types for freeslot.
package meeting

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrNegativeDuration  = errors.New("duration cannot be negative")
	ErrEndBeforeStart    = errors.New("end must be after start")
	ErrDateOrder         = errors.New("search end date must be after start date")
	ErrNoParticipants    = errors.New("at least one participant is required")
	ErrInvalidHour       = errors.New("hour must be between 0 and 23")
	ErrInvalidQuarter    = errors.New("quarter must be between 0 and 3")
	ErrIntervalSpansDays = errors.New("busy interval must start and end on the same day")
)

// Domain errors.
var (
	// ErrNotAuthorized indicates a participant's calendar could not be read
	// because the participant has no valid calendar authorization. It is
	// never retried; the caller should prompt for re-authorization.
	ErrNotAuthorized = errors.New("participant calendar not authorized")

	ErrParticipantNotFound = errors.New("participant not found")
)

// BusyInterval is one unavailable period for one participant, half-open
// [Start, End) on a single calendar day.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// NewBusyInterval validates and creates a BusyInterval.
func NewBusyInterval(start, end time.Time) (BusyInterval, error) {
	if !end.After(start) {
		return BusyInterval{}, ErrEndBeforeStart
	}
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy != ey || sm != em || sd != ed {
		// An interval ending exactly at the next midnight still belongs to
		// its start day under half-open semantics.
		midnight := time.Date(sy, sm, sd, 0, 0, 0, 0, start.Location()).AddDate(0, 0, 1)
		if !end.Equal(midnight) {
			return BusyInterval{}, ErrIntervalSpansDays
		}
	}
	return BusyInterval{Start: start, End: end}, nil
}

// SearchWindow constrains a free-slot search: the date range to scan, the
// meeting length, and the daily hour bounds. StartHour/StartQuarter apply to
// the first day only; every later day is scanned from 00:00. EndHour bounds
// every day.
type SearchWindow struct {
	FromDate        time.Time
	ToDate          time.Time // exclusive
	DurationMinutes int
	StartHour       int
	StartQuarter    int
	EndHour         int
}

// Validate rejects malformed windows before any calendar fetch happens.
func (w SearchWindow) Validate() error {
	if w.DurationMinutes < 0 {
		return ErrNegativeDuration
	}
	if !w.ToDate.After(w.FromDate) {
		return ErrDateOrder
	}
	if w.StartHour < 0 || w.StartHour > 23 {
		return fmt.Errorf("start hour: %w", ErrInvalidHour)
	}
	if w.StartQuarter < 0 || w.StartQuarter > 3 {
		return ErrInvalidQuarter
	}
	if w.EndHour < 0 || w.EndHour > 24 {
		return fmt.Errorf("end hour: %w", ErrInvalidHour)
	}
	return nil
}

// Days returns the number of calendar days the window covers.
func (w SearchWindow) Days() int {
	days := 0
	for d := w.FromDate; d.Before(w.ToDate); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}

// Slot is a found meeting start position within a search window.
type Slot struct {
	DayOffset int // days after SearchWindow.FromDate
	Hour      int
	Minute    int
}

// Time resolves the slot against the window's first day.
func (s Slot) Time(fromDate time.Time) time.Time {
	day := fromDate.AddDate(0, 0, s.DayOffset)
	return time.Date(day.Year(), day.Month(), day.Day(), s.Hour, s.Minute, 0, 0, day.Location())
}

// SlotResult is the outcome of a search: a slot, or not found. NotFound is a
// normal terminal state, not an error; an exhausted range must stay
// distinguishable from a failed fetch.
type SlotResult struct {
	Found bool
	Slot  Slot
}

// Participant is someone whose calendar takes part in a search.
type Participant struct {
	ID          int64
	Name        string
	Authorized  bool
	Competences []string
	CreatedAt   time.Time
}

// CalendarSource provides participants' busy intervals. Implementations
// return intervals for the given participant on the given calendar day, or
// an error wrapping ErrNotAuthorized when the participant's calendar cannot
// be read.
type CalendarSource interface {
	BusyIntervals(ctx context.Context, participantID int64, day time.Time) ([]BusyInterval, error)
}
