package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/freeslot/internal/dateutil"
	"github.com/javiermolinar/freeslot/internal/scheduler"
)

func (a *App) bookCmd() *cobra.Command {
	var (
		date         string
		start        string
		duration     int
		participants string
	)

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment for all participants",
		Long: `Create one appointment per participant for the given slot. All
entries share a group id, and the slot is recorded as busy time so a
repeated suggest skips it.`,
		Example: `  freeslot book --date=2025-01-20 --start=10:00 --duration=60 --participants=alice,bob`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()

			group, err := a.resolveParticipants(ctx, participants)
			if err != nil {
				return err
			}

			day, err := dateutil.ParseRelativeDate(date, time.Now())
			if err != nil {
				return err
			}
			startTime, err := dateutil.ClockOn(day, start)
			if err != nil {
				return err
			}
			endTime := scheduler.EndTime(startTime, duration)

			store, err := a.Store()
			if err != nil {
				return err
			}

			groupGUID, err := store.BookMeeting(ctx, startTime, endTime, a.config.Booking.Title, group)
			if err != nil {
				return fmt.Errorf("booking meeting: %w", err)
			}

			fmt.Printf("Booked %s for %d participant(s)\n", formatRange(startTime, endTime), len(group))
			fmt.Printf("Group id: %s\n", groupGUID)
			if endTime.Day() != startTime.Day() {
				fmt.Println(formatWarn("Note: the meeting ends past midnight."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Meeting date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes, rounded up to a quarter hour (default: 15)")
	cmd.Flags().StringVar(&participants, "participants", "", "Comma-separated participant names (required)")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("participants")

	return cmd
}
