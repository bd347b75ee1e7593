package storage

import (
	"context"

	"tracker/internal/core"
)

// Ports for the persistence gateway.
type (
	// ExpenseWriter appends one expense and returns it with its storage id.
	ExpenseWriter interface {
		InsertExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	}

	// IncomeWriter appends one income and returns it with its storage id.
	IncomeWriter interface {
		InsertIncome(ctx context.Context, i core.Income) (core.Income, error)
	}

	// Reader returns full snapshots. An empty collection is not an error.
	Reader interface {
		FetchAllExpenses(ctx context.Context) ([]core.Expense, error)
		FetchAllIncome(ctx context.Context) ([]core.Income, error)
	}

	// Gateway is the complete storage contract used by the application.
	Gateway interface {
		ExpenseWriter
		IncomeWriter
		Reader

		// EnsureSchema creates both tables when absent. Safe on every start.
		EnsureSchema(ctx context.Context) error
		Ping(ctx context.Context) error
		Close() error
	}
)
