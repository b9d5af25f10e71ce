// ABOUTME: Root command and global flags for the microdoser CLI
// ABOUTME: Registers every subcommand and validates --format
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Global flags shared by all commands
var (
	verbose      bool
	quiet        bool
	outputFormat string
	dbPath       string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "microdoser",
		Short: "Local medication reminders with LLM-assisted intake plans",
		Long: `microdoser keeps medication reminders, intake plans, a diary and notes
in a local SQLite database.

The pick and add commands ask an OpenRouter model for a structured plan and
store it as reminders, diary entries and notes. Replies are informational
and are not medical advice.

Configure the API key with:
  microdoser settings set api_key <key>
or set OPENROUTER_API_KEY in the environment or a .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "json", "table":
				return nil
			default:
				return fmt.Errorf("--format must be auto, json or table, got %q", outputFormat)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (debug logging)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results and errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json or table")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: XDG data dir)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewPickCmd(),
		NewAddCmd(),
		NewRemindersCmd(),
		NewCalendarCmd(),
		NewEventsCmd(),
		NewDiaryCmd(),
		NewNotesCmd(),
		NewPlansCmd(),
		NewMedicinesCmd(),
		NewRunsCmd(),
		NewSettingsCmd(),
		NewExportCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func jsonOutput() bool {
	return outputFormat == "json"
}
