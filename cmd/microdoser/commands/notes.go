// ABOUTME: CLI commands for notes
// ABOUTME: List, add, edit and delete title/body notes
package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/microdoser/internal/i18n"
	"github.com/harper/microdoser/internal/models"
	"github.com/harper/microdoser/internal/storage/sqlite"
)

var (
	notesLimit int
	noteTitle  string
	noteBody   string
)

// NewNotesCmd creates the notes command group
func NewNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes",
		Long: `Notes are title/body pairs, most recently updated first.

Examples:
  microdoser notes list
  microdoser notes add --title "Pharmacy" "Ask about generic ibuprofen"
  microdoser notes edit 3 --body "Bought it"
  microdoser notes delete 3`,
	}

	cmd.AddCommand(newNotesListCmd(), newNotesAddCmd(), newNotesEditCmd(), newNotesDeleteCmd())
	return cmd
}

func newNotesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Args:  cobra.NoArgs,
		RunE:  runNotesList,
	}

	cmd.Flags().IntVar(&notesLimit, "limit", sqlite.DefaultNotesLimit, "Maximum number of notes")

	return cmd
}

func runNotesList(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(notesLimit, "--limit"); err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	notes, err := a.store.Notes().ListRecent(notesLimit)
	if err != nil {
		return fmt.Errorf("listing notes: %w", err)
	}

	if jsonOutput() {
		if notes == nil {
			notes = []models.Note{}
		}
		data, err := json.MarshalIndent(notes, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	if len(notes) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No notes\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTITLE\tBODY\tUPDATED\n")
	fmt.Fprintf(w, "--\t-----\t----\t-------\n")
	for _, note := range notes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", note.ID, truncate(note.Title, 30), truncate(oneLine(note.Body), 50), formatTime(note.UpdatedAt))
	}
	_ = w.Flush()
	return nil
}

func newNotesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <body>",
		Short: "Add a note",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runNotesAdd,
	}

	cmd.Flags().StringVar(&noteTitle, "title", "", "Note title (default: localized \"Note\")")

	return cmd
}

func runNotesAdd(cmd *cobra.Command, args []string) error {
	body := strings.TrimSpace(strings.Join(args, " "))
	if body == "" {
		return fmt.Errorf("no text provided")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	title := strings.TrimSpace(noteTitle)
	if title == "" {
		title = i18n.For(a.cfg.Language).Note
	}

	id, err := a.store.Notes().Create(&models.Note{Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("creating note: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Added note %d\n", id)
	}
	return nil
}

func newNotesEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a note's title or body",
		Args:  cobra.ExactArgs(1),
		RunE:  runNotesEdit,
	}

	cmd.Flags().StringVar(&noteTitle, "title", "", "New title")
	cmd.Flags().StringVar(&noteBody, "body", "", "New body")

	return cmd
}

func runNotesEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("body") {
		return fmt.Errorf("nothing to change: pass --title and/or --body")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	current, err := a.store.Notes().Get(id)
	if err != nil {
		return fmt.Errorf("loading note: %w", err)
	}
	if current == nil {
		return fmt.Errorf("note %d not found", id)
	}

	title, body := current.Title, current.Body
	if cmd.Flags().Changed("title") {
		title = noteTitle
	}
	if cmd.Flags().Changed("body") {
		body = noteBody
	}

	updated, err := a.store.Notes().Update(id, title, body)
	if err != nil {
		return fmt.Errorf("updating note: %w", err)
	}
	if !updated {
		return fmt.Errorf("note %d not found", id)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated note %d\n", id)
	}
	return nil
}

func newNotesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
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

			deleted, err := a.store.Notes().Delete(id)
			if err != nil {
				return fmt.Errorf("deleting note: %w", err)
			}
			if !deleted {
				return fmt.Errorf("note %d not found", id)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted note %d\n", id)
			}
			return nil
		},
	}
}
