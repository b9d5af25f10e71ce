// ABOUTME: CLI command to build an intake plan for a medicine the user already takes
// ABOUTME: Sends name+dose and optional details to the LLM and saves the schedule
package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/microdoser/internal/llm"
)

var (
	addInfo     string
	addDryRun   bool
	addLanguage string
)

// NewAddCmd creates the add command
func NewAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name and dose>",
		Short: "Add a medicine and get an intake schedule",
		Long: `Name a medicine with its dose and get a structured intake plan with
reminders. Extra details such as the prescribed schedule go in --info.

Examples:
  microdoser add "Amoxicillin 500 mg"
  microdoser add "Vitamin D 2000 IU" --info "once a day with breakfast"
  microdoser add --dry-run "Ibuprofen 200 mg"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlanRequest(cmd, llm.KindAdd, strings.Join(args, " "), addInfo, addLanguage, addDryRun)
		},
	}

	cmd.Flags().StringVar(&addInfo, "info", "", "Additional details (schedule, course length)")
	cmd.Flags().BoolVar(&addDryRun, "dry-run", false, "Print the plan without saving it")
	cmd.Flags().StringVar(&addLanguage, "language", "", "Reply language: ru or en (default: configured)")

	return cmd
}
