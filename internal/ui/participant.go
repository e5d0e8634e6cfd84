package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *App) participantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "participant",
		Short: "Manage participants",
	}

	cmd.AddCommand(a.participantAddCmd())
	cmd.AddCommand(a.participantListCmd())
	cmd.AddCommand(a.participantAuthorizeCmd())
	cmd.AddCommand(a.participantRevokeCmd())

	return cmd
}

func (a *App) participantAddCmd() *cobra.Command {
	var competences string

	cmd := &cobra.Command{
		Use:     "add [name]",
		Short:   "Add a participant",
		Long:    `Add a participant. New participants start unauthorized; authorize them before scheduling.`,
		Example: `  freeslot participant add alice --competences=go,databases`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := a.Store()
			if err != nil {
				return err
			}

			var comps []string
			for _, c := range strings.Split(competences, ",") {
				c = strings.TrimSpace(strings.ToLower(c))
				if c != "" {
					comps = append(comps, c)
				}
			}

			p, err := store.CreateParticipant(context.Background(), args[0], comps)
			if err != nil {
				return fmt.Errorf("creating participant: %w", err)
			}

			fmt.Printf("Created participant #%d: %s\n", p.ID, p.Name)
			fmt.Printf("Authorize at: %s/%d\n", a.config.Booking.AuthBaseURL, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&competences, "competences", "", "Comma-separated competences")

	return cmd
}

func (a *App) participantListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List participants",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := a.Store()
			if err != nil {
				return err
			}

			participants, err := store.ListParticipants(context.Background())
			if err != nil {
				return fmt.Errorf("listing participants: %w", err)
			}

			if len(participants) == 0 {
				fmt.Println("No participants yet.")
				return nil
			}

			for _, p := range participants {
				auth := formatWarn("unauthorized")
				if p.Authorized {
					auth = formatOK("authorized")
				}
				line := fmt.Sprintf("#%d %s [%s]", p.ID, p.Name, auth)
				if len(p.Competences) > 0 {
					line += " " + formatMuted(strings.Join(p.Competences, ", "))
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func (a *App) participantAuthorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "authorize [name]",
		Short: "Mark a participant's calendar as authorized",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.setAuthorized(args[0], true)
		},
	}
}

func (a *App) participantRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke [name]",
		Short: "Revoke a participant's calendar authorization",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.setAuthorized(args[0], false)
		},
	}
}

func (a *App) setAuthorized(name string, authorized bool) error {
	ctx := context.Background()

	store, err := a.Store()
	if err != nil {
		return err
	}

	p, err := store.GetParticipantByName(ctx, name)
	if err != nil {
		return err
	}

	if err := store.SetAuthorized(ctx, p.ID, authorized); err != nil {
		return fmt.Errorf("updating authorization: %w", err)
	}

	state := "revoked"
	if authorized {
		state = "authorized"
	}
	fmt.Printf("%s is now %s\n", p.Name, state)
	return nil
}
