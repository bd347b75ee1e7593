package reporting

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

var (
	ExpenseHeader = []string{"id", "date", "category", "description", "amount"}
	IncomeHeader  = []string{"id", "date", "source", "description", "amount"}
)

// ErrBadHeader is returned when a CSV file does not start with the expected columns.
var ErrBadHeader = errors.New("unexpected csv header")

// WriteExpensesCSV writes a header row followed by one row per expense.
func WriteExpensesCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExpenseHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range expenses {
		if err := cw.Write(record(e.ID, e.Date, string(e.Category), e.Description, e.Amount)); err != nil {
			return fmt.Errorf("write expense %d: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteIncomeCSV writes a header row followed by one row per income.
func WriteIncomeCSV(w io.Writer, income []core.Income) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(IncomeHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, i := range income {
		if err := cw.Write(record(i.ID, i.Date, string(i.Source), i.Description, i.Amount)); err != nil {
			return fmt.Errorf("write income %d: %w", i.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(id int64, date core.Date, label, desc string, amount decimal.Decimal) []string {
	return []string{strconv.FormatInt(id, 10), date.String(), label, desc, amount.StringFixed(2)}
}

// ReadExpensesCSV parses the format produced by WriteExpensesCSV.
func ReadExpensesCSV(r io.Reader) ([]core.Expense, error) {
	rows, err := readRows(r, ExpenseHeader)
	if err != nil {
		return nil, err
	}
	out := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.Expense{
			ID: row.id, Date: row.date, Category: core.Category(row.label), Description: row.description, Amount: row.amount,
		})
	}
	return out, nil
}

// ReadIncomeCSV parses the format produced by WriteIncomeCSV.
func ReadIncomeCSV(r io.Reader) ([]core.Income, error) {
	rows, err := readRows(r, IncomeHeader)
	if err != nil {
		return nil, err
	}
	out := make([]core.Income, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.Income{
			ID: row.id, Date: row.date, Source: core.Source(row.label), Description: row.description, Amount: row.amount,
		})
	}
	return out, nil
}

type csvRow struct {
	id          int64
	date        core.Date
	label       string
	description string
	amount      decimal.Decimal
}

func readRows(r io.Reader, header []string) ([]csvRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	got, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if strings.Join(got, ",") != strings.Join(header, ",") {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, got)
	}

	var out []csvRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		var row csvRow
		if row.id, err = strconv.ParseInt(rec[0], 10, 64); err != nil {
			return nil, fmt.Errorf("line %d: id %q: %w", line, rec[0], err)
		}
		if row.date, err = core.ParseDate(rec[1]); err != nil {
			return nil, fmt.Errorf("line %d: date %q: %w", line, rec[1], err)
		}
		if row.amount, err = decimal.NewFromString(rec[4]); err != nil {
			return nil, fmt.Errorf("line %d: amount %q: %w", line, rec[4], err)
		}
		row.label, row.description = rec[2], rec[3]
		out = append(out, row)
	}
	return out, nil
}
