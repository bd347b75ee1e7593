package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

func TestMemoryStoreInsertAndFetch(t *testing.T) {
	s := New()
	ctx := context.Background()

	exp, err := s.FetchAllExpenses(ctx)
	if err != nil || exp == nil || len(exp) != 0 {
		t.Fatalf("expected empty expenses, got %v err=%v", exp, err)
	}

	saved, err := s.InsertExpense(ctx, core.Expense{
		Date:        core.NewDate(2025, 1, 6),
		Category:    core.Food,
		Description: "t",
		Amount:      decimal.RequireFromString("1.23"),
	})
	if err != nil || saved.ID != 1 {
		t.Fatalf("unexpected insert: id=%d err=%v", saved.ID, err)
	}
	inc, err := s.InsertIncome(ctx, core.Income{
		Date:        core.NewDate(2025, 1, 6),
		Source:      core.Salary,
		Description: "pay",
		Amount:      decimal.NewFromInt(10),
	})
	if err != nil || inc.ID != 1 {
		t.Fatalf("income ids are independent: id=%d err=%v", inc.ID, err)
	}

	exp, _ = s.FetchAllExpenses(ctx)
	if len(exp) != 1 || exp[0].Description != "t" {
		t.Fatalf("unexpected expenses %+v", exp)
	}
	// Snapshots are copies.
	exp[0].Description = "changed"
	again, _ := s.FetchAllExpenses(ctx)
	if again[0].Description != "t" {
		t.Fatalf("fetch must return a copy")
	}
}

func TestMemoryStoreConcurrentInserts(t *testing.T) {
	s := New()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.InsertExpense(ctx, core.Expense{Date: core.NewDate(2025, 1, 6), Category: core.Food, Description: "x", Amount: decimal.NewFromInt(1)})
		}()
	}
	wg.Wait()
	exp, _ := s.FetchAllExpenses(ctx)
	if len(exp) != 50 {
		t.Fatalf("expected 50 rows, got %d", len(exp))
	}
	seen := map[int64]bool{}
	for _, e := range exp {
		if seen[e.ID] {
			t.Fatalf("duplicate id %d", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	s := New()
	_ = s.Close()
	ctx := context.Background()
	if err := s.Ping(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := s.InsertIncome(ctx, core.Income{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
