// ABOUTME: CLI commands listing intake plans and known medicines
// ABOUTME: Plans can be filtered by the LLM run that produced them
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/microdoser/internal/models"
)

var (
	plansLimit int
	plansRun   int64
)

// NewPlansCmd creates the plans command
func NewPlansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List intake plans",
		Long: `List intake plans created from LLM replies, newest first.

Examples:
  microdoser plans
  microdoser plans --run 4
  microdoser plans --format json`,
		Args: cobra.NoArgs,
		RunE: runPlans,
	}

	cmd.Flags().IntVar(&plansLimit, "limit", 20, "Maximum number of plans")
	cmd.Flags().Int64Var(&plansRun, "run", 0, "Only plans from this LLM run id")

	return cmd
}

func runPlans(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(plansLimit, "--limit"); err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var plans []models.IntakePlan
	if plansRun > 0 {
		plans, err = a.store.Plans().ListByRun(plansRun)
	} else {
		plans, err = a.store.Plans().List(plansLimit)
	}
	if err != nil {
		return fmt.Errorf("listing plans: %w", err)
	}

	if jsonOutput() {
		if plans == nil {
			plans = []models.IntakePlan{}
		}
		data, err := json.MarshalIndent(plans, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	if len(plans) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No intake plans\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tMEDICINE\tDOSE MG\tINSTRUCTIONS\tCREATED\n")
	fmt.Fprintf(w, "--\t--------\t-------\t------------\t-------\n")
	for _, p := range plans {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, truncate(p.MedicineNameText, 30), optionalInt(p.DoseMg), truncate(oneLine(p.Instructions), 50), formatTime(p.CreatedAt))
	}
	_ = w.Flush()
	return nil
}

// NewMedicinesCmd creates the medicines command
func NewMedicinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "medicines",
		Short: "List known medicines",
		Long: `List medicines recorded from saved plans. Medicines are deduplicated
by name, form and strength.`,
		Args: cobra.NoArgs,
		RunE: runMedicines,
	}
}

func runMedicines(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	meds, err := a.store.Medicines().List()
	if err != nil {
		return fmt.Errorf("listing medicines: %w", err)
	}

	if jsonOutput() {
		if meds == nil {
			meds = []models.Medicine{}
		}
		data, err := json.MarshalIndent(meds, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return nil
	}

	if len(meds) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No medicines\n")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tFORM\tSTRENGTH MG\n")
	fmt.Fprintf(w, "--\t----\t----\t-----------\n")
	for _, m := range meds {
		form := ""
		if m.Form != nil {
			form = *m.Form
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.ID, truncate(m.Name, 40), form, optionalInt(m.StrengthMg))
	}
	_ = w.Flush()
	return nil
}

func optionalInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
