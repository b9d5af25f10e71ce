// ABOUTME: CLI command drawing a month calendar with reminder days marked
// ABOUTME: Uses the lipgloss month grid from internal/ui
package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/microdoser/internal/models"
	"github.com/harper/microdoser/internal/ui"
)

var (
	calendarMonth string
)

// NewCalendarCmd creates the calendar command
func NewCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month with reminder days marked",
		Long: `Draw a month grid. Days that have reminders are highlighted and
marked with a dot; today is highlighted when it falls in the month.

Examples:
  microdoser calendar
  microdoser calendar --month 2025-03`,
		Args: cobra.NoArgs,
		RunE: runCalendar,
	}

	cmd.Flags().StringVar(&calendarMonth, "month", "", "Month in YYYY-MM format (default: current month)")

	return cmd
}

func runCalendar(cmd *cobra.Command, args []string) error {
	now := time.Now()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	if calendarMonth != "" {
		parsed, err := ui.ParseMonth(calendarMonth)
		if err != nil {
			return err
		}
		month = parsed
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	first, last := ui.MonthBounds(month)
	from, _ := models.DayBounds(first)
	_, to := models.DayBounds(last)
	events, err := a.store.Calendar().ListBetween(from, to)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}

	counts := eventCountsByDay(events)

	if jsonOutput() {
		data, err := json.MarshalIndent(map[string]interface{}{
			"month":  month.Format("2006-01"),
			"counts": counts,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderMonth(month, counts, now, a.cfg.Language))
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Total: %d reminder(s)\n", len(events))
	}
	return nil
}

// eventCountsByDay maps day-of-month to the number of events starting that day
func eventCountsByDay(events []models.CalendarEvent) map[int]int {
	counts := make(map[int]int)
	for _, ev := range events {
		start, err := models.ParseLocalDateTime(ev.StartLocal)
		if err != nil {
			continue
		}
		counts[start.Day()]++
	}
	return counts
}
