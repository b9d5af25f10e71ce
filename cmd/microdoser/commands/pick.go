// ABOUTME: CLI command to ask for a medicine recommendation from symptoms
// ABOUTME: Saves the reply as intake plan, reminders, diary entry and notes unless --dry-run
package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/microdoser/internal/llm"
)

var (
	pickDryRun   bool
	pickLanguage string
)

// NewPickCmd creates the pick command
func NewPickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pick <symptoms>",
		Short: "Get a medicine recommendation for symptoms",
		Long: `Describe symptoms in free text and get one medicine recommendation
with dose, course, warnings and a reminder schedule.

The reply is stored as an intake plan, calendar reminders, a diary entry
and notes. Use --dry-run to only print it. Not medical advice.

Examples:
  microdoser pick "headache since morning, no fever"
  microdoser pick --dry-run --language en "sore throat"
  microdoser pick --format json "runny nose"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlanRequest(cmd, llm.KindPick, strings.Join(args, " "), "", pickLanguage, pickDryRun)
		},
	}

	cmd.Flags().BoolVar(&pickDryRun, "dry-run", false, "Print the plan without saving it")
	cmd.Flags().StringVar(&pickLanguage, "language", "", "Reply language: ru or en (default: configured)")

	return cmd
}
