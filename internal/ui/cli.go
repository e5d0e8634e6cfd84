// Package ui implements the freeslot command line interface.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/freeslot/internal/config"
	"github.com/javiermolinar/freeslot/internal/db"
	"github.com/javiermolinar/freeslot/internal/meeting"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	store  *db.SQLite
	root   *cobra.Command
}

// NewApp creates a new CLI application with the given config.
// The store is opened lazily so commands that never touch the database
// (version, config) don't create one.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "freeslot",
		Short: "Find meeting slots common to several calendars",
		Long: `Freeslot finds the next time slot every participant is free for,
at quarter-hour resolution, and books it as an appointment.

Busy time lives in a local calendar store; participants must be
authorized before their calendars can be read.`,
		SilenceUsage: true,
	}

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.suggestCmd())
	a.root.AddCommand(a.bookCmd())
	a.root.AddCommand(a.busyCmd())
	a.root.AddCommand(a.participantCmd())
	a.root.AddCommand(a.expertCmd())

	return a
}

// Store returns the SQLite store, opening it on first use.
func (a *App) Store() (*db.SQLite, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	a.store = store
	return a.store, nil
}

// Close releases the store if it was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("freeslot %s (commit: %s)\n", Version, Commit)
		},
	}
}

// resolveParticipants maps a comma-separated list of names to stored
// participants, in the given order.
func (a *App) resolveParticipants(ctx context.Context, names string) ([]*meeting.Participant, error) {
	store, err := a.Store()
	if err != nil {
		return nil, err
	}

	var participants []*meeting.Participant
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p, err := store.GetParticipantByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("participant %q: %w", name, err)
		}
		participants = append(participants, p)
	}

	if len(participants) == 0 {
		return nil, meeting.ErrNoParticipants
	}
	return participants, nil
}
