package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/freeslot/internal/dateutil"
	"github.com/javiermolinar/freeslot/internal/meeting"
	"github.com/javiermolinar/freeslot/internal/scheduler"
)

func (a *App) suggestCmd() *cobra.Command {
	var (
		fromDate     string
		toDate       string
		duration     int
		participants string
		skip         int
		startClock   string
		noColor      bool
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest the next slot free for all participants",
		Long: `Search a date range for the next time slot every participant is
free for. Use --skip to discard the first matches and get the one after
("show me another time").

The daily search window comes from the configured day_start and day_end;
--start overrides the first day's lower bound so times already past can
be excluded.`,
		Example: `  freeslot suggest --participants=alice,bob --duration=60
  freeslot suggest --from=tomorrow --to=2025-02-01 --participants=alice,bob --duration=30 --skip=2`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			ctx := context.Background()

			group, err := a.resolveParticipants(ctx, participants)
			if err != nil {
				return err
			}

			window, err := a.buildWindow(fromDate, toDate, duration, startClock)
			if err != nil {
				return err
			}

			store, err := a.Store()
			if err != nil {
				return err
			}

			var opts []scheduler.Option
			if a.config.Schedule.MaskWorkingHours {
				dayStart, err := dateutil.ClockOn(window.FromDate, a.config.Schedule.DayStart)
				if err != nil {
					return err
				}
				dayEnd, err := dateutil.ClockOn(window.FromDate, a.config.Schedule.DayEnd)
				if err != nil {
					return err
				}
				opts = append(opts, scheduler.WithWorkingHours(dayStart, dayEnd))
			}

			ids := make([]int64, len(group))
			for i, p := range group {
				ids[i] = p.ID
			}

			result, err := scheduler.New(store, opts...).Suggest(ctx, window, ids, skip)
			if errors.Is(err, meeting.ErrNotAuthorized) {
				fmt.Println(formatWarn("A participant's calendar is not authorized."))
				fmt.Printf("Authorize at: %s\n", a.authLink(group))
				return err
			}
			if err != nil {
				return err
			}

			if !result.Found {
				fmt.Println("No common free slot in the searched range.")
				return nil
			}

			start := result.Slot.Time(window.FromDate)
			end := scheduler.EndTime(start, window.DurationMinutes)
			printSlot(start, end)
			if end.Day() != start.Day() {
				fmt.Println(formatWarn("Note: the meeting would end past midnight."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromDate, "from", "", "First day to search (YYYY-MM-DD, 'today', 'tomorrow', weekday names)")
	cmd.Flags().StringVar(&toDate, "to", "", "Day after the last searched day (same forms as --from, default: from + 7 days)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Meeting duration in minutes (default: 15)")
	cmd.Flags().StringVar(&participants, "participants", "", "Comma-separated participant names (required)")
	cmd.Flags().IntVar(&skip, "skip", 0, "Number of matching slots to skip")
	cmd.Flags().StringVar(&startClock, "start", "", "First day's earliest time (HH:MM, default: configured day_start)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")

	_ = cmd.MarkFlagRequired("participants")

	return cmd
}

// buildWindow assembles a SearchWindow from flags and config defaults.
func (a *App) buildWindow(fromDate, toDate string, duration int, startClock string) (meeting.SearchWindow, error) {
	dates, err := dateutil.NewDateRange(fromDate, toDate)
	if err != nil {
		return meeting.SearchWindow{}, err
	}

	if startClock == "" {
		startClock = a.config.Schedule.DayStart
	}
	startHour, startMinute, err := dateutil.ParseClock(startClock)
	if err != nil {
		return meeting.SearchWindow{}, err
	}
	// Begin at the next quarter boundary so a mid-quarter start cannot
	// suggest a time already past.
	startQuarter := (startMinute + 14) / 15
	if startQuarter > 3 {
		startHour++
		startQuarter = 0
	}
	// A start after 23:45 leaves no quarter boundary on the first day;
	// clamp to the last cell so the scan just finds nothing there.
	if startHour > 23 {
		startHour, startQuarter = 23, 3
	}

	endHour, _, err := dateutil.ParseClock(a.config.Schedule.DayEnd)
	if err != nil {
		return meeting.SearchWindow{}, err
	}

	return meeting.SearchWindow{
		FromDate:        dates.Start,
		ToDate:          dates.End,
		DurationMinutes: duration,
		StartHour:       startHour,
		StartQuarter:    startQuarter,
		EndHour:         endHour,
	}, nil
}

// authLink builds the re-authorization URL for the first unauthorized
// participant in the group.
func (a *App) authLink(group []*meeting.Participant) string {
	for _, p := range group {
		if !p.Authorized {
			return fmt.Sprintf("%s/%d", a.config.Booking.AuthBaseURL, p.ID)
		}
	}
	return a.config.Booking.AuthBaseURL
}
