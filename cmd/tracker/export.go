package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	applog "tracker/internal/log"
	"tracker/internal/reporting"
	"tracker/internal/storage"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:       "export expenses|income",
	Short:     "Write all expenses or income as CSV",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"expenses", "income"},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := bootstrap(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.close()

		var out io.Writer = cmd.OutOrStdout()
		if exportOutput != "" && exportOutput != "-" {
			f, createErr := os.Create(exportOutput)
			if createErr != nil {
				return fmt.Errorf("create %s: %w", exportOutput, createErr)
			}
			defer closeOutput(f, exportOutput, &err)
			out = f
		}

		rows, err := exportCSV(cmd.Context(), a.backend.Store, args[0], out)
		if err != nil {
			return err
		}

		a.logger.Info("Export complete",
			applog.FieldOperation, applog.OpExport,
			applog.FieldKind, args[0],
			"rows", rows,
			"output", exportOutput)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:       "import expenses|income <file.csv>",
	Short:     "Append rows from a CSV produced by export",
	Long:      "Append rows from a CSV produced by export. Ids in the file are ignored; every row is validated and gets a new id.",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"expenses", "income"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, path := args[0], args[1]
		if kind != "expenses" && kind != "income" {
			return fmt.Errorf("unknown kind %q: want expenses or income", kind)
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()

		a, err := bootstrap(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		imported := 0
		if kind == "income" {
			rows, err := reporting.ReadIncomeCSV(f)
			if err != nil {
				return err
			}
			for _, i := range rows {
				i.ID = 0
				if _, err := a.backend.Ledger.AddIncome(ctx, i); err != nil {
					return fmt.Errorf("row %d: %w", imported+1, err)
				}
				imported++
			}
		} else {
			rows, err := reporting.ReadExpensesCSV(f)
			if err != nil {
				return err
			}
			for _, e := range rows {
				e.ID = 0
				if _, err := a.backend.Ledger.AddExpense(ctx, e); err != nil {
					return fmt.Errorf("row %d: %w", imported+1, err)
				}
				imported++
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s from %s\n", imported, kind, path)
		return nil
	},
}

// closeOutput closes a written file and reports the close error unless an
// earlier error is already being returned.
func closeOutput(c io.Closer, name string, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("close %s: %w", name, cerr)
	}
}

// exportCSV writes every stored row of kind to out and reports how many.
func exportCSV(ctx context.Context, store storage.Reader, kind string, out io.Writer) (int, error) {
	if kind == "income" {
		income, err := store.FetchAllIncome(ctx)
		if err != nil {
			return 0, err
		}
		return len(income), reporting.WriteIncomeCSV(out, income)
	}
	expenses, err := store.FetchAllExpenses(ctx)
	if err != nil {
		return 0, err
	}
	return len(expenses), reporting.WriteExpensesCSV(out, expenses)
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
}
