// ABOUTME: CLI commands for the diary
// ABOUTME: Lists entries in a date range and adds free-text entries
package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/microdoser/internal/models"
)

var (
	diaryFrom string
	diaryTo   string
	diaryDate string
)

// NewDiaryCmd creates the diary command group
func NewDiaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diary",
		Short: "Read and write diary entries",
		Long: `Diary entries are dated free text. The pick and add commands write one
entry per saved plan; you can add your own with diary add.

Examples:
  microdoser diary list
  microdoser diary list --from 2025-03-01 --to 2025-03-31
  microdoser diary add "Headache gone by noon"`,
	}

	cmd.AddCommand(newDiaryListCmd(), newDiaryAddCmd())
	return cmd
}

func newDiaryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List diary entries",
		Args:  cobra.NoArgs,
		RunE:  runDiaryList,
	}

	cmd.Flags().StringVar(&diaryFrom, "from", "", "First day, YYYY-MM-DD (default: 30 days ago)")
	cmd.Flags().StringVar(&diaryTo, "to", "", "Last day, YYYY-MM-DD (default: 30 days after --from)")

	return cmd
}

func runDiaryList(cmd *cobra.Command, args []string) error {
	rawFrom := diaryFrom
	if rawFrom == "" {
		rawFrom = models.FormatDate(time.Now().AddDate(0, 0, -30))
	}
	from, to, err := parseRange(rawFrom, diaryTo, 30)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.store.Diary().ListBetween(models.FormatDate(from), models.FormatDate(to))
	if err != nil {
		return fmt.Errorf("listing diary: %w", err)
	}

	if jsonOutput() {
		if entries == nil {
			entries = []models.DiaryEntry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	if len(entries) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No diary entries\n")
		}
		return nil
	}

	for i, entry := range entries {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", entry.EntryDate, entry.Text)
	}
	return nil
}

func newDiaryAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a diary entry",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDiaryAdd,
	}

	cmd.Flags().StringVar(&diaryDate, "date", "", "Entry date, YYYY-MM-DD (default: today)")

	return cmd
}

func runDiaryAdd(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return fmt.Errorf("no text provided")
	}

	date := models.FormatDate(time.Now())
	if diaryDate != "" {
		parsed, err := models.ParseDate(diaryDate)
		if err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD, got %q", diaryDate)
		}
		date = models.FormatDate(parsed)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.store.Diary().Create(&models.DiaryEntry{EntryDate: date, Text: text})
	if err != nil {
		return fmt.Errorf("creating diary entry: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added diary entry %d for %s\n", id, date)
	}
	return nil
}
