package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/freeslot/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  freeslot config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(cfg)

	// Ask if user wants to edit
	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	// Interactive editing
	reader := bufio.NewReader(os.Stdin)

	cfg.Schedule.DayStart = promptValue(reader, "Day start", cfg.Schedule.DayStart)
	cfg.Schedule.DayEnd = promptValue(reader, "Day end", cfg.Schedule.DayEnd)
	cfg.Schedule.MaskWorkingHours = promptBool(reader, "Restrict search to working hours", cfg.Schedule.MaskWorkingHours)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.Booking.Title = promptValue(reader, "Appointment title", cfg.Booking.Title)
	cfg.Booking.AuthBaseURL = promptValue(reader, "Authorization base URL", cfg.Booking.AuthBaseURL)
	cfg.Competence.TaxonomyPath = promptValue(reader, "Competence taxonomy path (empty to disable)", cfg.Competence.TaxonomyPath)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Save
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[schedule]")
	fmt.Printf("  day_start          = %s\n", cfg.Schedule.DayStart)
	fmt.Printf("  day_end            = %s\n", cfg.Schedule.DayEnd)
	fmt.Printf("  mask_working_hours = %v\n", cfg.Schedule.MaskWorkingHours)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path            = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[booking]")
	fmt.Printf("  title              = %s\n", cfg.Booking.Title)
	fmt.Printf("  auth_base_url      = %s\n", cfg.Booking.AuthBaseURL)
	fmt.Println("\n[competence]")
	fmt.Printf("  taxonomy_path      = %s\n", cfg.Competence.TaxonomyPath)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptBool(reader *bufio.Reader, label string, current bool) bool {
	currentStr := "false"
	if current {
		currentStr = "true"
	}
	value := strings.ToLower(promptValue(reader, label+" (true/false)", currentStr))
	return value == "true" || value == "1" || value == "y" || value == "yes"
}
