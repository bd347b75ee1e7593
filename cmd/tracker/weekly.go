package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tracker/internal/core"
	"tracker/internal/services"
)

var weeklyFlags struct {
	start       string
	amount      string
	category    string
	description string
	noWeekends  bool
	dryRun      bool
}

var addWeeklyCmd = &cobra.Command{
	Use:   "add-weekly",
	Short: "Spread a weekly amount over the next seven days",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w, err := weeklyFromFlags()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if weeklyFlags.dryRun {
			planned, err := core.PlanWeekly(w)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Would add %d expenses of %s:\n", len(planned), w.DailyAmount().StringFixed(2))
			printEntries(out, planned)
			return nil
		}

		a, err := bootstrap(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.backend.Ledger.AddWeekly(cmd.Context(), w)
		var partial *services.PartialWriteError
		if errors.As(err, &partial) {
			fmt.Fprintf(out, "Stopped after %d of %d days; these rows were saved:\n", partial.Written, partial.Planned)
			printEntries(out, result.Entries)
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(out, result.Message())
		printEntries(out, result.Entries)
		return nil
	},
}

func weeklyFromFlags() (core.WeeklyExpense, error) {
	start := core.Today()
	if weeklyFlags.start != "" {
		d, err := core.ParseDate(weeklyFlags.start)
		if err != nil {
			return core.WeeklyExpense{}, fmt.Errorf("--start %q: %w", weeklyFlags.start, err)
		}
		start = d
	}
	amount, err := core.ParseAmount(weeklyFlags.amount)
	if err != nil {
		return core.WeeklyExpense{}, fmt.Errorf("--amount %q: %w", weeklyFlags.amount, err)
	}
	return core.WeeklyExpense{
		StartDate:       start,
		Amount:          amount,
		IncludeWeekends: !weeklyFlags.noWeekends,
		Category:        core.Category(weeklyFlags.category),
		Description:     weeklyFlags.description,
	}, nil
}

func printEntries(w io.Writer, entries []core.Expense) {
	for _, e := range entries {
		id := "-"
		if e.ID != 0 {
			id = fmt.Sprint(e.ID)
		}
		fmt.Fprintf(w, "  %s  %-4s %s  %s  %s\n", e.Date, id, e.Date.Weekday().String()[:3], e.Category, e.Amount.StringFixed(2))
	}
}

func init() {
	f := addWeeklyCmd.Flags()
	f.StringVar(&weeklyFlags.start, "start", "", "first day, YYYY-MM-DD (default today)")
	f.StringVar(&weeklyFlags.amount, "amount", "", "weekly amount")
	f.StringVar(&weeklyFlags.category, "category", string(core.OtherCategory), "expense category")
	f.StringVar(&weeklyFlags.description, "description", "", "description for every day")
	f.BoolVar(&weeklyFlags.noWeekends, "no-weekends", false, "skip Saturday and Sunday")
	f.BoolVar(&weeklyFlags.dryRun, "dry-run", false, "print the plan without saving")
	_ = addWeeklyCmd.MarkFlagRequired("amount")
	_ = addWeeklyCmd.MarkFlagRequired("description")
}
