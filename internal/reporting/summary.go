// Package reporting derives the analytics snapshot and the CSV exports from
// the stored transactions. Nothing is cached: every call recomputes from the
// rows it is given.
package reporting

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"tracker/internal/core"
	"tracker/internal/storage"
)

// Summarize computes totals, breakdowns and daily series.
func Summarize(expenses []core.Expense, income []core.Income) core.Summary {
	s := core.Summary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		ExpenseCount: len(expenses),
		IncomeCount:  len(income),
	}

	byCategory := map[string]decimal.Decimal{}
	expenseDays := dailySums{}
	for _, e := range expenses {
		s.TotalExpense = s.TotalExpense.Add(e.Amount)
		byCategory[string(e.Category)] = byCategory[string(e.Category)].Add(e.Amount)
		expenseDays.add(e.Date, e.Amount)
	}

	bySource := map[string]decimal.Decimal{}
	incomeDays := dailySums{}
	for _, i := range income {
		s.TotalIncome = s.TotalIncome.Add(i.Amount)
		bySource[string(i.Source)] = bySource[string(i.Source)].Add(i.Amount)
		incomeDays.add(i.Date, i.Amount)
	}

	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	s.ByCategory = groups(byCategory, categoryNames())
	s.BySource = groups(bySource, sourceNames())
	s.ExpenseSeries = expenseDays.series()
	s.IncomeSeries = incomeDays.series()
	return s
}

func categoryNames() []string {
	out := make([]string, 0, len(core.AllCategories))
	for _, c := range core.AllCategories {
		out = append(out, string(c))
	}
	return out
}

func sourceNames() []string {
	out := make([]string, 0, len(core.AllSources))
	for _, s := range core.AllSources {
		out = append(out, string(s))
	}
	return out
}

// groups orders sums by the fixed label order. Labels outside that order
// (legacy rows) follow alphabetically.
func groups(sums map[string]decimal.Decimal, order []string) []core.GroupAmount {
	out := make([]core.GroupAmount, 0, len(sums))
	known := map[string]bool{}
	for _, name := range order {
		known[name] = true
		if amount, ok := sums[name]; ok {
			out = append(out, core.GroupAmount{Name: name, Amount: amount})
		}
	}
	var extra []string
	for name := range sums {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, core.GroupAmount{Name: name, Amount: sums[name]})
	}
	return out
}

// dailySums accumulates amounts per calendar day, keyed by ISO date.
type dailySums map[string]*core.DayAmount

func (d dailySums) add(date core.Date, amount decimal.Decimal) {
	key := date.String()
	if cur, ok := d[key]; ok {
		cur.Amount = cur.Amount.Add(amount)
		return
	}
	d[key] = &core.DayAmount{Date: date, Amount: amount}
}

func (d dailySums) series() []core.DayAmount {
	out := make([]core.DayAmount, 0, len(d))
	for _, day := range d {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out
}

// Loader fetches fresh snapshots from the gateway.
type Loader struct {
	store storage.Reader
}

func NewLoader(store storage.Reader) *Loader {
	return &Loader{store: store}
}

// Snapshot fetches both collections concurrently.
func (l *Loader) Snapshot(ctx context.Context) ([]core.Expense, []core.Income, error) {
	var (
		expenses []core.Expense
		income   []core.Income
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = l.store.FetchAllExpenses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		income, err = l.store.FetchAllIncome(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("load transactions: %w", err)
	}
	return expenses, income, nil
}

// Summary loads both collections and summarizes them.
func (l *Loader) Summary(ctx context.Context) (core.Summary, error) {
	expenses, income, err := l.Snapshot(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	return Summarize(expenses, income), nil
}
