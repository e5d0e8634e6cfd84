package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/freeslot/internal/competence"
)

func (a *App) expertCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "expert [competence]",
		Short: "Find participants by competence",
		Long: `Resolve a competence against the configured taxonomy and list the
participants holding it. When nobody holds the exact competence, the
lookup walks up the taxonomy toward more general ones.

With --message, every competence mentioned in the text is resolved
instead of a single named one.`,
		Example: `  freeslot expert go
  freeslot expert --message "anyone around who knows django?"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if a.config.Competence.TaxonomyPath == "" {
				return errors.New("no competence taxonomy configured (set competence.taxonomy_path)")
			}
			if message == "" && len(args) == 0 {
				return errors.New("name a competence or pass --message")
			}

			taxonomy, err := competence.Load(a.config.Competence.TaxonomyPath)
			if err != nil {
				return err
			}

			store, err := a.Store()
			if err != nil {
				return err
			}
			participants, err := store.ListParticipants(context.Background())
			if err != nil {
				return fmt.Errorf("listing participants: %w", err)
			}

			if message != "" {
				mentioned := taxonomy.Match(message)
				if len(mentioned) == 0 {
					fmt.Println("No known competences mentioned.")
					return nil
				}
				experts := taxonomy.ExpertsForMessage(message, participants)
				if len(experts) == 0 {
					fmt.Printf("Mentioned %s, but no participant holds any of them.\n",
						strings.Join(mentioned, ", "))
					return nil
				}
				for _, e := range experts {
					printExperts(e)
				}
				return nil
			}

			path, err := taxonomy.FindPath(args[0])
			if err != nil {
				return err
			}

			experts := competence.UsersWith(path, participants)
			if experts == nil {
				fmt.Printf("No participant holds %q or anything more general (%s).\n",
					path[0], strings.Join(path, " > "))
				return nil
			}
			printExperts(experts)
			return nil
		},
	}

	cmd.Flags().StringVar(&message, "message", "", "Free-form text to scan for competences")

	return cmd
}

func printExperts(e *competence.Experts) {
	fmt.Printf("%s:\n", formatHeader(e.Competence))
	for _, p := range e.Participants {
		fmt.Printf("  #%d %s\n", p.ID, p.Name)
	}
}
