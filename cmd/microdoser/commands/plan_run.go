// ABOUTME: Shared flow for the pick and add commands
// ABOUTME: Runs one LLM request, prints the plan and reports what was saved
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/microdoser/internal/core"
	"github.com/harper/microdoser/internal/llm"
	"github.com/harper/microdoser/internal/ui"
)

type planOutput struct {
	RequestID string          `json:"request_id"`
	Plan      interface{}     `json:"plan"`
	Saved     *core.SavedPlan `json:"saved,omitempty"`
}

func runPlanRequest(cmd *cobra.Command, kind llm.RequestKind, text, info, lang string, dryRun bool) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	runner, err := a.newRunner()
	if err != nil {
		return err
	}

	if lang == "" {
		lang = a.cfg.Language
	}
	req := llm.NewRequest(kind, lang, text, info)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := runner.Start(ctx, req, !dryRun)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Asking %s...\n", a.cfg.Model)
	}
	res := <-results

	if res.Response == nil {
		return res.Err
	}

	if jsonOutput() {
		data, err := json.MarshalIndent(planOutput{RequestID: req.ID, Plan: res.Response.Plan, Saved: res.Saved}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	} else {
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderPlan(res.Response.Plan, req.Language))
	}

	if res.Err != nil {
		return fmt.Errorf("saving plan: %w", res.Err)
	}
	if res.Saved != nil && !quiet && !jsonOutput() {
		fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Saved run %d: %d plan(s), %d reminder(s), %d diary entr(ies), %d note(s)\n",
			res.Saved.LlmRunID,
			len(res.Saved.IntakePlanIDs),
			len(res.Saved.CalendarEventIDs),
			len(res.Saved.DiaryEntryIDs),
			len(res.Saved.NoteIDs))
	}
	return nil
}
