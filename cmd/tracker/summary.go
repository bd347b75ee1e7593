package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tracker/internal/core"
	"tracker/internal/reporting"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print totals, balance and breakdowns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.close()

		summary, err := reporting.NewLoader(a.backend.Store).Summary(cmd.Context())
		if err != nil {
			return err
		}
		return printSummary(cmd.OutOrStdout(), a.cfg.CurrencySymbol, summary)
	},
}

func printSummary(w io.Writer, currency string, s core.Summary) error {
	if s.Empty() {
		_, err := fmt.Fprintln(w, "No data yet. Add some expenses or income first.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Total income\t%s\t\n", core.FormatAmount(currency, s.TotalIncome))
	fmt.Fprintf(tw, "Total expense\t%s\t\n", core.FormatAmount(currency, s.TotalExpense))
	fmt.Fprintf(tw, "Balance\t%s\t\n", core.FormatAmount(currency, s.Balance))

	if len(s.ByCategory) > 0 {
		fmt.Fprintf(tw, "\t\t\nExpenses by category (%d rows)\t\t\n", s.ExpenseCount)
		for _, g := range s.ByCategory {
			fmt.Fprintf(tw, "%s\t%s\t\n", g.Name, core.FormatAmount(currency, g.Amount))
		}
	}
	if len(s.BySource) > 0 {
		fmt.Fprintf(tw, "\t\t\nIncome by source (%d rows)\t\t\n", s.IncomeCount)
		for _, g := range s.BySource {
			fmt.Fprintf(tw, "%s\t%s\t\n", g.Name, core.FormatAmount(currency, g.Amount))
		}
	}
	return tw.Flush()
}
