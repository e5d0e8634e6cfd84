package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/freeslot/internal/dateutil"
	"github.com/javiermolinar/freeslot/internal/meeting"
)

func (a *App) busyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "busy",
		Short: "Manage participants' busy time",
	}

	cmd.AddCommand(a.busyAddCmd())
	cmd.AddCommand(a.busyListCmd())

	return cmd
}

func (a *App) busyAddCmd() *cobra.Command {
	var (
		participant string
		date        string
		start       string
		end         string
	)

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Record a busy interval for a participant",
		Example: `  freeslot busy add --participant=alice --date=2025-01-20 --start=09:00 --end=10:30`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()

			store, err := a.Store()
			if err != nil {
				return err
			}

			p, err := store.GetParticipantByName(ctx, participant)
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
			endTime, err := dateutil.ClockOn(day, end)
			if err != nil {
				return err
			}

			iv, err := meeting.NewBusyInterval(startTime, endTime)
			if err != nil {
				return err
			}

			if err := store.AddBusyInterval(ctx, p.ID, iv); err != nil {
				return fmt.Errorf("adding busy interval: %w", err)
			}

			fmt.Printf("Marked %s busy %s\n", p.Name, formatRange(startTime, endTime))
			return nil
		},
	}

	cmd.Flags().StringVar(&participant, "participant", "", "Participant name (required)")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")

	_ = cmd.MarkFlagRequired("participant")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) busyListCmd() *cobra.Command {
	var (
		participant string
		date        string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List a participant's busy intervals for a day",
		Example: `  freeslot busy list --participant=alice --date=2025-01-20`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()

			store, err := a.Store()
			if err != nil {
				return err
			}

			p, err := store.GetParticipantByName(ctx, participant)
			if err != nil {
				return err
			}

			day, err := dateutil.ParseRelativeDate(date, time.Now())
			if err != nil {
				return err
			}

			intervals, err := store.BusyIntervals(ctx, p.ID, day)
			if err != nil {
				return fmt.Errorf("listing busy intervals: %w", err)
			}

			if len(intervals) == 0 {
				fmt.Printf("%s is free all day on %s.\n", p.Name, day.Format("2006-01-02"))
				return nil
			}

			fmt.Printf("%s on %s:\n", formatHeader(p.Name), day.Format("2006-01-02"))
			for _, iv := range intervals {
				fmt.Printf("  %s-%s\n", iv.Start.Format("15:04"), iv.End.Format("15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&participant, "participant", "", "Participant name (required)")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default: today)")

	_ = cmd.MarkFlagRequired("participant")

	return cmd
}
