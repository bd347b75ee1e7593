package reporting

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
	"tracker/internal/storage/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fixtures() ([]core.Expense, []core.Income) {
	expenses := []core.Expense{
		{ID: 1, Date: core.NewDate(2025, 1, 7), Category: core.Bills, Description: "power", Amount: d("80")},
		{ID: 2, Date: core.NewDate(2025, 1, 6), Category: core.Food, Description: "lunch", Amount: d("12.50")},
		{ID: 3, Date: core.NewDate(2025, 1, 6), Category: core.Food, Description: "dinner", Amount: d("20")},
		{ID: 4, Date: core.NewDate(2025, 1, 8), Category: core.Transport, Description: "bus", Amount: d("2.25")},
	}
	income := []core.Income{
		{ID: 1, Date: core.NewDate(2025, 1, 31), Source: core.Salary, Description: "jan", Amount: d("3000")},
		{ID: 2, Date: core.NewDate(2025, 1, 15), Source: core.Freelance, Description: "gig", Amount: d("250.75")},
	}
	return expenses, income
}

func TestSummarizeTotalsAndBalance(t *testing.T) {
	s := Summarize(fixtures())
	if !s.TotalExpense.Equal(d("114.75")) {
		t.Fatalf("total expense %s", s.TotalExpense)
	}
	if !s.TotalIncome.Equal(d("3250.75")) {
		t.Fatalf("total income %s", s.TotalIncome)
	}
	if !s.Balance.Equal(d("3136")) {
		t.Fatalf("balance %s", s.Balance)
	}
	if s.Empty() {
		t.Fatalf("summary must not be empty")
	}
}

func TestSummarizeBreakdownsSumToTotals(t *testing.T) {
	s := Summarize(fixtures())

	wantCats := []string{"Food", "Transport", "Bills"}
	if len(s.ByCategory) != len(wantCats) {
		t.Fatalf("expected %d categories, got %+v", len(wantCats), s.ByCategory)
	}
	total := decimal.Zero
	for i, g := range s.ByCategory {
		if g.Name != wantCats[i] {
			t.Fatalf("category %d = %s, want %s", i, g.Name, wantCats[i])
		}
		total = total.Add(g.Amount)
	}
	if !total.Equal(s.TotalExpense) {
		t.Fatalf("category sum %s != total %s", total, s.TotalExpense)
	}
	if !s.ByCategory[0].Amount.Equal(d("32.5")) {
		t.Fatalf("food sum %s", s.ByCategory[0].Amount)
	}

	total = decimal.Zero
	for _, g := range s.BySource {
		total = total.Add(g.Amount)
	}
	if !total.Equal(s.TotalIncome) || s.BySource[0].Name != "Salary" {
		t.Fatalf("unexpected sources %+v", s.BySource)
	}
}

func TestSummarizeSeriesIsChronological(t *testing.T) {
	s := Summarize(fixtures())
	if len(s.ExpenseSeries) != 3 {
		t.Fatalf("expected 3 expense days, got %d", len(s.ExpenseSeries))
	}
	want := []string{"2025-01-06", "2025-01-07", "2025-01-08"}
	for i, p := range s.ExpenseSeries {
		if p.Date.String() != want[i] {
			t.Fatalf("point %d on %s, want %s", i, p.Date, want[i])
		}
	}
	if !s.ExpenseSeries[0].Amount.Equal(d("32.5")) {
		t.Fatalf("same-day amounts must be summed, got %s", s.ExpenseSeries[0].Amount)
	}
	if s.IncomeSeries[0].Date.String() != "2025-01-15" {
		t.Fatalf("income series not sorted: %+v", s.IncomeSeries)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil)
	if !s.Empty() {
		t.Fatalf("expected empty summary")
	}
	if !s.Balance.IsZero() || len(s.ByCategory) != 0 || len(s.ExpenseSeries) != 0 {
		t.Fatalf("unexpected values %+v", s)
	}
}

func TestSummarizeUnknownLabelsAreKept(t *testing.T) {
	s := Summarize([]core.Expense{
		{Date: core.NewDate(2025, 1, 1), Category: "Rent", Amount: d("5")},
		{Date: core.NewDate(2025, 1, 1), Category: core.Food, Amount: d("1")},
	}, nil)
	if len(s.ByCategory) != 2 || s.ByCategory[0].Name != "Food" || s.ByCategory[1].Name != "Rent" {
		t.Fatalf("unexpected order %+v", s.ByCategory)
	}
}

func TestLoaderReflectsNewRows(t *testing.T) {
	store := memory.New()
	loader := NewLoader(store)
	ctx := context.Background()

	s, err := loader.Summary(ctx)
	if err != nil || !s.Empty() {
		t.Fatalf("expected empty summary, got %+v err=%v", s, err)
	}

	_, _ = store.InsertExpense(ctx, core.Expense{Date: core.NewDate(2025, 1, 6), Category: core.Food, Description: "x", Amount: d("9.99")})
	s, err = loader.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.ExpenseCount != 1 || !s.TotalExpense.Equal(d("9.99")) {
		t.Fatalf("summary must recompute after insert, got %+v", s)
	}
}

func TestLoaderPropagatesErrors(t *testing.T) {
	store := memory.New()
	_ = store.Close()
	_, _, err := NewLoader(store).Snapshot(context.Background())
	if !errors.Is(err, memory.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
