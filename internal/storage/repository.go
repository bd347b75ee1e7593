package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"tracker/internal/core"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	expensesTable = "expenses"
	incomeTable   = "income"
)

// SQLRepository persists transactions in SQLite or PostgreSQL.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
}

var _ Gateway = (*SQLRepository)(nil)

// NewSQLiteRepository opens (and creates if needed) a SQLite database file.
// dsn is a file path, optionally followed by driver options after '?'.
func NewSQLiteRepository(dsn string) (*SQLRepository, error) {
	dbPath, _, _ := strings.Cut(dsn, "?")
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open(SQLite.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer keeps SQLite from returning SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &SQLRepository{db: db, dialect: SQLite}, nil
}

// NewPostgresRepository connects to PostgreSQL through the pgx stdlib driver.
func NewPostgresRepository(ctx context.Context, dsn string) (*SQLRepository, error) {
	db, err := sql.Open(Postgres.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &SQLRepository{db: db, dialect: Postgres}, nil
}

func (r *SQLRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// EnsureSchema creates the expenses and income tables when absent.
func (r *SQLRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range r.dialect.schema() {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	slog.DebugContext(ctx, "Schema ensured", "dialect", r.dialect)
	return nil
}

// InsertExpense appends one expense row.
func (r *SQLRepository) InsertExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	id, err := r.insert(ctx, expensesTable, "category", e.Date, string(e.Category), e.Description, e.Amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	e.ID = id

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"date", e.Date.String(),
		"category", e.Category,
		"amount", e.Amount.StringFixed(2))
	return e, nil
}

// InsertIncome appends one income row.
func (r *SQLRepository) InsertIncome(ctx context.Context, i core.Income) (core.Income, error) {
	id, err := r.insert(ctx, incomeTable, "source", i.Date, string(i.Source), i.Description, i.Amount)
	if err != nil {
		return core.Income{}, fmt.Errorf("insert income: %w", err)
	}
	i.ID = id

	slog.InfoContext(ctx, "Income saved",
		"id", i.ID,
		"date", i.Date.String(),
		"source", i.Source,
		"amount", i.Amount.StringFixed(2))
	return i, nil
}

func (r *SQLRepository) insert(ctx context.Context, table, label string, date core.Date, value, desc string, amount decimal.Decimal) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, r.dialect.insertQuery(table, label),
		date.String(), value, desc, amount.StringFixed(2)).Scan(&id)
	return id, err
}

// FetchAllExpenses returns every expense ordered by id.
func (r *SQLRepository) FetchAllExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.fetch(ctx, expensesTable, "category")
	if err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}
	out := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.Expense{
			ID:          row.id,
			Date:        row.date,
			Category:    core.Category(row.label),
			Description: row.description,
			Amount:      row.amount,
		})
	}
	return out, nil
}

// FetchAllIncome returns every income ordered by id.
func (r *SQLRepository) FetchAllIncome(ctx context.Context) ([]core.Income, error) {
	rows, err := r.fetch(ctx, incomeTable, "source")
	if err != nil {
		return nil, fmt.Errorf("fetch income: %w", err)
	}
	out := make([]core.Income, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.Income{
			ID:          row.id,
			Date:        row.date,
			Source:      core.Source(row.label),
			Description: row.description,
			Amount:      row.amount,
		})
	}
	return out, nil
}

// transactionRow is the shape shared by both tables.
type transactionRow struct {
	id          int64
	date        core.Date
	label       string
	description string
	amount      decimal.Decimal
}

func (r *SQLRepository) fetch(ctx context.Context, table, label string) ([]transactionRow, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.selectQuery(table, label))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []transactionRow
	for rows.Next() {
		var (
			row       transactionRow
			rawDate   string
			rawAmount string
		)
		if err := rows.Scan(&row.id, &rawDate, &row.label, &row.description, &rawAmount); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if row.date, err = core.ParseDate(rawDate); err != nil {
			return nil, fmt.Errorf("row %d: date %q: %w", row.id, rawDate, err)
		}
		if row.amount, err = decimal.NewFromString(rawAmount); err != nil {
			return nil, fmt.Errorf("row %d: amount %q: %w", row.id, rawAmount, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
