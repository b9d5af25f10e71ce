// ABOUTME: CLI commands to add, list and delete calendar events by hand
// ABOUTME: Events created here have no source LLM run
package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/microdoser/internal/models"
)

var (
	eventTitle    string
	eventAt       string
	eventDuration int
	eventNote     string
	eventRemind   []int
	eventsFrom    string
	eventsTo      string
)

// NewEventsCmd creates the events command group
func NewEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage calendar events",
		Long: `Add, list and delete calendar events (reminders).

Examples:
  microdoser events add --title "Ibuprofen" --at "2025-03-01 09:00"
  microdoser events list --from 2025-03-01 --to 2025-03-07
  microdoser events delete 12`,
	}

	cmd.AddCommand(newEventsAddCmd(), newEventsListCmd(), newEventsDeleteCmd())
	return cmd
}

func newEventsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a calendar event",
		Args:  cobra.NoArgs,
		RunE:  runEventsAdd,
	}

	cmd.Flags().StringVar(&eventTitle, "title", "", "Event title (required)")
	cmd.Flags().StringVar(&eventAt, "at", "", "Start as YYYY-MM-DD HH:MM (required)")
	cmd.Flags().IntVar(&eventDuration, "duration", 0, "Duration in minutes")
	cmd.Flags().StringVar(&eventNote, "note", "", "Event note")
	cmd.Flags().IntSliceVar(&eventRemind, "remind", nil, "Reminder offsets in minutes before start")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("at")

	return cmd
}

func runEventsAdd(cmd *cobra.Command, args []string) error {
	start, err := models.ParseLocalDateTime(eventAt)
	if err != nil {
		return fmt.Errorf("--at must be YYYY-MM-DD HH:MM: %w", err)
	}
	if err := validateNonNegativeInt(eventDuration, "--duration"); err != nil {
		return err
	}

	event := &models.CalendarEvent{
		Title:              eventTitle,
		StartLocal:         models.FormatLocal(start),
		RemindersMinBefore: eventRemind,
		Notes:              eventNote,
	}
	if eventDuration > 0 {
		event.EndLocal = models.FormatLocal(start.Add(time.Duration(eventDuration) * time.Minute))
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.store.Calendar().Create(event)
	if err != nil {
		return fmt.Errorf("creating event: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added event %d at %s\n", id, event.StartLocal)
	}
	return nil
}

func newEventsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events in a date range",
		Args:  cobra.NoArgs,
		RunE:  runEventsList,
	}

	cmd.Flags().StringVar(&eventsFrom, "from", "", "First day, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&eventsTo, "to", "", "Last day, YYYY-MM-DD (default: 7 days after --from)")

	return cmd
}

func runEventsList(cmd *cobra.Command, args []string) error {
	from, to, err := parseRange(eventsFrom, eventsTo, 7)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	start, _ := models.DayBounds(from)
	_, end := models.DayBounds(to)
	events, err := a.store.Calendar().ListBetween(start, end)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
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
			fmt.Fprintf(cmd.OutOrStdout(), "No events between %s and %s\n", models.FormatDate(from), models.FormatDate(to))
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSTART\tEND\tTITLE\n")
	fmt.Fprintf(w, "--\t-----\t---\t-----\n")
	for _, ev := range events {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", ev.ID, ev.StartLocal, ev.EndLocal, truncate(ev.Title, 40))
	}
	_ = w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d event(s)\n", len(events))
	}
	return nil
}

func newEventsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			deleted, err := a.store.Calendar().Delete(id)
			if err != nil {
				return fmt.Errorf("deleting event: %w", err)
			}
			if !deleted {
				return fmt.Errorf("event %d not found", id)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted event %d\n", id)
			}
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
