package core

import "github.com/shopspring/decimal"

// GroupAmount is an amount aggregated under one label (a category or a source).
type GroupAmount struct {
	Name   string
	Amount decimal.Decimal
}

// DayAmount is an amount aggregated for one calendar day.
type DayAmount struct {
	Date   Date
	Amount decimal.Decimal
}

// Summary is the analytics snapshot over every stored expense and income.
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpense  decimal.Decimal
	Balance       decimal.Decimal
	ByCategory    []GroupAmount
	BySource      []GroupAmount
	ExpenseSeries []DayAmount
	IncomeSeries  []DayAmount
	ExpenseCount  int
	IncomeCount   int
}

// Empty reports whether there is nothing to analyse.
func (s Summary) Empty() bool {
	return s.ExpenseCount == 0 && s.IncomeCount == 0
}
