// Package scheduler finds the next free time slot common to a set of
// participants' calendars.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/freeslot/internal/grid"
	"github.com/javiermolinar/freeslot/internal/meeting"
)

// Scheduler drives the day-by-day slot search over a calendar source.
type Scheduler struct {
	source meeting.CalendarSource

	// workMask, when non-nil, is merged into every day's combined grid so
	// only the configured working hours are searchable.
	workMask *grid.Grid
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWorkingHours restricts every searched day to the half-open clock
// range [dayStart, dayEnd) by merging a windowed grid into each day.
func WithWorkingHours(dayStart, dayEnd time.Time) Option {
	return func(s *Scheduler) {
		mask := grid.Windowed(dayStart, dayEnd)
		s.workMask = &mask
	}
}

// New creates a Scheduler reading busy intervals from the given source.
func New(source meeting.CalendarSource, opts ...Option) *Scheduler {
	s := &Scheduler{source: source}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequiredQuarters converts a duration in minutes to the number of
// consecutive free quarter-hour cells a slot needs. A zero or unspecified
// duration counts as one quarter.
func RequiredQuarters(durationMinutes int) int {
	if durationMinutes <= 0 {
		return 1
	}
	return (durationMinutes + 14) / 15
}

// FindSlot scans one merged grid for the first run of required consecutive
// free cells, skipping the first skip matches. The scan starts at
// startHour:startQuarter and considers starting positions strictly before
// endHour*4; a matching run may extend past that bound but never past the
// last cell of the day.
//
// When no surviving candidate exists, the returned remaining skip reflects
// candidates already discarded, so a caller searching several days can
// carry it into the next one.
func FindSlot(g grid.Grid, required, skip, startHour, startQuarter, endHour int) (hour, minute int, found bool, remaining int) {
	if required < 1 {
		required = 1
	}

	idx := startHour*4 + startQuarter
	limit := endHour * 4
	for idx < limit {
		if g.At(idx) == grid.Free && runFree(g, idx, required) {
			if skip == 0 {
				return idx / 4, (idx % 4) * 15, true, 0
			}
			// Discard this candidate and resume after the matched run so
			// successive skips yield non-overlapping positions.
			skip--
			idx += required
			continue
		}
		idx++
	}
	return 0, 0, false, skip
}

// runFree reports whether required consecutive cells starting at idx are
// all free. A run that would extend past the end of the day never matches.
func runFree(g grid.Grid, idx, required int) bool {
	if idx+required > grid.Cells {
		return false
	}
	for d := range required {
		if g.At(idx+d) == grid.Busy {
			return false
		}
	}
	return true
}

// Suggest searches the window day by day for the first slot free for every
// participant, discarding the first skip matches. The first day is scanned
// from the window's start hour and quarter; later days from midnight. The
// skip counter carries across days.
//
// The search aborts with an error wrapping meeting.ErrNotAuthorized as soon
// as any participant's calendar cannot be fetched; a partial answer must
// not masquerade as "no free slot".
func (s *Scheduler) Suggest(ctx context.Context, window meeting.SearchWindow, participantIDs []int64, skip int) (meeting.SlotResult, error) {
	if err := window.Validate(); err != nil {
		return meeting.SlotResult{}, err
	}
	if len(participantIDs) == 0 {
		return meeting.SlotResult{}, meeting.ErrNoParticipants
	}
	if skip < 0 {
		skip = 0
	}

	required := RequiredQuarters(window.DurationMinutes)

	dayOffset := 0
	for day := window.FromDate; day.Before(window.ToDate); day = day.AddDate(0, 0, 1) {
		grids := make([]grid.Grid, 0, len(participantIDs)+1)
		for _, id := range participantIDs {
			intervals, err := s.source.BusyIntervals(ctx, id, day)
			if err != nil {
				return meeting.SlotResult{}, fmt.Errorf("fetching calendar for participant %d: %w", id, err)
			}
			g := grid.Blank()
			for _, iv := range intervals {
				g.MarkBusy(iv)
			}
			grids = append(grids, g)
		}
		if s.workMask != nil {
			grids = append(grids, *s.workMask)
		}

		merged := grid.Merge(grids...)

		startHour, startQuarter := 0, 0
		if dayOffset == 0 {
			startHour, startQuarter = window.StartHour, window.StartQuarter
		}

		hour, minute, found, remaining := FindSlot(merged, required, skip, startHour, startQuarter, window.EndHour)
		if found {
			return meeting.SlotResult{
				Found: true,
				Slot:  meeting.Slot{DayOffset: dayOffset, Hour: hour, Minute: minute},
			}, nil
		}
		skip = remaining
		dayOffset++
	}

	return meeting.SlotResult{}, nil
}

// EndTime returns the end timestamp of a meeting starting at start, with
// the duration rounded up to the next multiple of 15 minutes. A result past
// midnight is returned as-is; flagging it is the caller's concern.
func EndTime(start time.Time, durationMinutes int) time.Time {
	rounded := RequiredQuarters(durationMinutes) * 15
	return start.Add(time.Duration(rounded) * time.Minute)
}
