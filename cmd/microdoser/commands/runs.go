// ABOUTME: CLI commands for the LLM run log
// ABOUTME: Lists recent runs and shows one run's stored reply
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/microdoser/internal/models"
)

var (
	runsLimit int
)

// NewRunsCmd creates the runs command group
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the LLM run log",
		Long: `Every pick and add request is logged, including failed ones.

Examples:
  microdoser runs list
  microdoser runs show 4`,
	}

	cmd.AddCommand(newRunsListCmd(), newRunsShowCmd())
	return cmd
}

func newRunsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE:  runRunsList,
	}

	cmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs")

	return cmd
}

func runRunsList(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(runsLimit, "--limit"); err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	runs, err := a.store.Runs().ListRecent(runsLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if jsonOutput() {
		if runs == nil {
			runs = []models.LlmRun{}
		}
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	if len(runs) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No runs\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSTATUS\tLANG\tMODEL\tINPUT\tCREATED\n")
	fmt.Fprintf(w, "--\t------\t----\t-----\t-----\t-------\n")
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", run.ID, run.Status, run.Language, truncate(run.Model, 30), truncate(oneLine(run.UserText), 40), formatTime(run.CreatedAt))
	}
	_ = w.Flush()
	return nil
}

func newRunsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run with its stored reply",
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

			run, err := a.store.Runs().Get(id)
			if err != nil {
				return fmt.Errorf("loading run: %w", err)
			}
			if run == nil {
				return fmt.Errorf("run %d not found", id)
			}

			if jsonOutput() {
				data, err := json.MarshalIndent(run, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling JSON: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:      %d (%s)\n", run.ID, run.RequestID)
			fmt.Fprintf(out, "Status:   %s\n", run.Status)
			fmt.Fprintf(out, "Model:    %s\n", run.Model)
			fmt.Fprintf(out, "Language: %s\n", run.Language)
			fmt.Fprintf(out, "Created:  %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "\nInput:\n%s\n", run.UserText)
			if run.ErrorText != "" {
				fmt.Fprintf(out, "\nError:\n%s\n", run.ErrorText)
			}
			if run.ResponseJSON != "" {
				fmt.Fprintf(out, "\nReply:\n%s\n", run.ResponseJSON)
			}
			return nil
		},
	}
}
