// Package grid implements the quarter-hour availability grid used for
// free-slot matching.
package grid

import (
	"time"

	"github.com/javiermolinar/freeslot/internal/meeting"
)

// Cells is the number of quarter-hour cells in one day.
const Cells = 24 * 4

// Grid is one day's availability at quarter-hour resolution. Row is the
// hour of day (0-23), column the quarter within the hour (0 = :00,
// 1 = :15, 2 = :30, 3 = :45). A cell is either Free or Busy; there is no
// unset state.
type Grid [24][4]uint8

// Cell states.
const (
	Free uint8 = 0
	Busy uint8 = 1
)

// Blank returns a grid with every cell free.
func Blank() Grid {
	return Grid{}
}

// Windowed returns a grid that is busy everywhere except the half-open
// clock range [from, to), which is free. A window opening mid-quarter
// excludes the partial leading quarter (start rounds up); a window closing
// mid-quarter excludes the partial trailing quarter (end rounds down).
// Only the time of day of from and to is used.
func Windowed(from, to time.Time) Grid {
	var g Grid
	for h := range 24 {
		for q := range 4 {
			g[h][q] = Busy
		}
	}

	startIdx := quarterCeil(from.Minute())
	endIdx := to.Minute()/15 - 1

	for h := from.Hour(); h <= to.Hour(); h++ {
		switch {
		case h == from.Hour():
			for q := startIdx; q < 4; q++ {
				g[h][q] = Free
			}
		case h == to.Hour():
			for q := 0; q <= endIdx; q++ {
				g[h][q] = Free
			}
		default:
			for q := range 4 {
				g[h][q] = Free
			}
		}
	}
	return g
}

// MarkBusy marks the half-open range [iv.Start, iv.End) busy with the
// rounding complementary to Windowed: a busy period occupies the quarter it
// begins in (start rounds down) and the quarter it ends in (end rounds up),
// except that an interval ending exactly on an hour boundary leaves the end
// hour untouched. Marking is monotone; overlapping intervals may be applied
// in any order.
func (g *Grid) MarkBusy(iv meeting.BusyInterval) {
	startHour, endHour := iv.Start.Hour(), iv.End.Hour()
	if iv.End.Day() != iv.Start.Day() {
		// Half-open interval ending exactly at the next midnight.
		endHour = 24
	}
	startIdx := iv.Start.Minute() / 15
	endIdx := quarterCeil(iv.End.Minute())
	endAtZero := endIdx == 0
	if !endAtZero {
		endIdx--
	}

	for h := startHour; h <= endHour && h < 24; h++ {
		if startHour == endHour {
			for q := startIdx; q <= endIdx; q++ {
				g[h][q] = Busy
			}
			break
		}
		switch {
		case h == startHour:
			for q := startIdx; q < 4; q++ {
				g[h][q] = Busy
			}
		case h == endHour:
			if endAtZero {
				break
			}
			for q := 0; q <= endIdx; q++ {
				g[h][q] = Busy
			}
		default:
			for q := range 4 {
				g[h][q] = Busy
			}
		}
	}
}

// Merge combines any number of grids into one where a cell is busy if it is
// busy in at least one input. Merging is commutative, associative, and
// idempotent; an empty input produces a blank grid.
func Merge(grids ...Grid) Grid {
	var merged Grid
	for _, g := range grids {
		for h := range 24 {
			for q := range 4 {
				if g[h][q] == Busy {
					merged[h][q] = Busy
				}
			}
		}
	}
	return merged
}

// At returns the cell state at a flattened linear index (hour*4 + quarter).
func (g Grid) At(idx int) uint8 {
	return g[idx/4][idx%4]
}

// quarterCeil converts a minute-of-hour to its quarter index, rounding up.
func quarterCeil(minute int) int {
	return (minute + 14) / 15
}
