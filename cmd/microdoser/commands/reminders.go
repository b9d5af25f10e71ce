// ABOUTME: CLI command listing the reminders for one day
// ABOUTME: Reminders are calendar events ordered by time
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/microdoser/internal/models"
)

var (
	remindersDate string
)

// NewRemindersCmd creates the reminders command
func NewRemindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Show reminders for a day",
		Long: `Show medication reminders for one day, ordered by time.

Examples:
  microdoser reminders
  microdoser reminders --date 2025-03-01
  microdoser reminders --format json`,
		Args: cobra.NoArgs,
		RunE: runReminders,
	}

	cmd.Flags().StringVar(&remindersDate, "date", "", "Day in YYYY-MM-DD format (default: today)")

	return cmd
}

func runReminders(cmd *cobra.Command, args []string) error {
	day := time.Now()
	if remindersDate != "" {
		parsed, err := models.ParseDate(remindersDate)
		if err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD, got %q", remindersDate)
		}
		day = parsed
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	events, err := a.store.Calendar().ListOnDate(day)
	if err != nil {
		return fmt.Errorf("listing reminders: %w", err)
	}

	if jsonOutput() {
		if events == nil {
			events = []models.CalendarEvent{}
		}
		data, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	if len(events) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No reminders for %s\n", models.FormatDate(day))
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TIME\tTITLE\tNOTES\tID\n")
	fmt.Fprintf(w, "----\t-----\t-----\t--\n")
	for _, ev := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", ev.TimeHHMM(), truncate(ev.Title, 40), truncate(oneLine(ev.Notes), 40), ev.ID)
	}
	_ = w.Flush()

	return nil
}
