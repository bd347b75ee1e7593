package storage

import (
	"fmt"
	"strconv"
)

// Dialect captures the SQL differences between the supported engines.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

// schema returns the idempotent DDL for both tables.
func (d Dialect) schema() []string {
	switch d {
	case Postgres:
		return []string{
			`CREATE TABLE IF NOT EXISTS expenses (
				id BIGSERIAL PRIMARY KEY,
				date DATE NOT NULL,
				category TEXT NOT NULL,
				description TEXT NOT NULL,
				amount NUMERIC(14,2) NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS income (
				id BIGSERIAL PRIMARY KEY,
				date DATE NOT NULL,
				source TEXT NOT NULL,
				description TEXT NOT NULL,
				amount NUMERIC(14,2) NOT NULL
			)`,
		}
	default:
		// Amounts are kept as text so decimals survive SQLite's numeric affinity.
		return []string{
			`CREATE TABLE IF NOT EXISTS expenses (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				date TEXT NOT NULL,
				category TEXT NOT NULL,
				description TEXT NOT NULL,
				amount TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS income (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				date TEXT NOT NULL,
				source TEXT NOT NULL,
				description TEXT NOT NULL,
				amount TEXT NOT NULL
			)`,
		}
	}
}

// insertQuery builds an INSERT ... RETURNING id for table with the label
// column (category or source).
func (d Dialect) insertQuery(table, label string) string {
	dateArg, amountArg := d.placeholder(1), d.placeholder(4)
	if d == Postgres {
		dateArg += "::date"
		amountArg += "::numeric"
	}
	return fmt.Sprintf(
		"INSERT INTO %s (date, %s, description, amount) VALUES (%s, %s, %s, %s) RETURNING id",
		table, label, dateArg, d.placeholder(2), d.placeholder(3), amountArg)
}

// selectQuery reads every row of table with date and amount rendered as text.
func (d Dialect) selectQuery(table, label string) string {
	dateCol, amountCol := "date", "amount"
	if d == Postgres {
		dateCol = "to_char(date, 'YYYY-MM-DD')"
		amountCol = "amount::text"
	}
	return fmt.Sprintf("SELECT id, %s, %s, description, %s FROM %s ORDER BY id",
		dateCol, label, amountCol, table)
}

func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
