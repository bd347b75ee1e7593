package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

func newTestRepo(t *testing.T) *SQLRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "tracker.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return repo
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if _, err := repo.InsertExpense(ctx, core.Expense{
		Date: core.NewDate(2025, 1, 6), Category: core.Food, Description: "a", Amount: decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := repo.EnsureSchema(ctx); err != nil {
			t.Fatalf("ensure schema again: %v", err)
		}
	}
	got, err := repo.FetchAllExpenses(ctx)
	if err != nil || len(got) != 1 {
		t.Fatalf("existing rows must survive: got=%d err=%v", len(got), err)
	}
}

func TestFetchEmptyTables(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	exp, err := repo.FetchAllExpenses(ctx)
	if err != nil || exp == nil || len(exp) != 0 {
		t.Fatalf("expected empty non-nil expenses, got %v err=%v", exp, err)
	}
	inc, err := repo.FetchAllIncome(ctx)
	if err != nil || inc == nil || len(inc) != 0 {
		t.Fatalf("expected empty non-nil income, got %v err=%v", inc, err)
	}
}

func TestInsertAndFetchExpenses(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	in := []core.Expense{
		{Date: core.NewDate(2025, 1, 6), Category: core.Food, Description: "groceries", Amount: decimal.RequireFromString("12.50")},
		{Date: core.NewDate(2025, 1, 7), Category: core.Bills, Description: "power", Amount: decimal.RequireFromString("80")},
	}
	var ids []int64
	for _, e := range in {
		saved, err := repo.InsertExpense(ctx, e)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if saved.ID == 0 {
			t.Fatalf("expected assigned id")
		}
		ids = append(ids, saved.ID)
	}
	if ids[1] <= ids[0] {
		t.Fatalf("ids must increase: %v", ids)
	}

	got, err := repo.FetchAllExpenses(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	for i, e := range got {
		if e.ID != ids[i] || !e.Date.Equal(in[i].Date.Time) || e.Category != in[i].Category ||
			e.Description != in[i].Description || !e.Amount.Equal(in[i].Amount) {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, e, in[i])
		}
	}
}

func TestInsertAndFetchIncome(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	saved, err := repo.InsertIncome(ctx, core.Income{
		Date: core.NewDate(2025, 2, 1), Source: core.Salary, Description: "february", Amount: decimal.RequireFromString("3000.10"),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := repo.FetchAllIncome(ctx)
	if err != nil || len(got) != 1 {
		t.Fatalf("fetch: got=%d err=%v", len(got), err)
	}
	if got[0].ID != saved.ID || got[0].Source != core.Salary || got[0].Date.String() != "2025-02-01" ||
		!got[0].Amount.Equal(decimal.RequireFromString("3000.1")) {
		t.Fatalf("unexpected row %+v", got[0])
	}
}

func TestPing(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	repo.Close()
	if err := repo.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping to fail after close")
	}
}

func TestSQLiteDSNOptions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "opts")
	repo, err := NewSQLiteRepository(filepath.Join(dir, "tracker.db") + "?_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open with options: %v", err)
	}
	defer repo.Close()

	var timeout int
	if err := repo.db.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("read pragma: %v", err)
	}
	if timeout != 5000 {
		t.Fatalf("busy_timeout = %d, want 5000", timeout)
	}
	if _, err := os.Stat(filepath.Join(dir, "tracker.db")); err != nil {
		t.Fatalf("database file not created at the path without options: %v", err)
	}
}

func TestDialectQueries(t *testing.T) {
	pg := Postgres.insertQuery("expenses", "category")
	if !strings.Contains(pg, "$1::date") || !strings.Contains(pg, "$4::numeric") || !strings.HasSuffix(pg, "RETURNING id") {
		t.Fatalf("unexpected postgres insert: %s", pg)
	}
	lite := SQLite.insertQuery("income", "source")
	if strings.Contains(lite, "$") || strings.Count(lite, "?") != 4 {
		t.Fatalf("unexpected sqlite insert: %s", lite)
	}
	if sel := Postgres.selectQuery("income", "source"); !strings.Contains(sel, "amount::text") {
		t.Fatalf("postgres select must render amount as text: %s", sel)
	}
}
