package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	daysPerWeek     = 7
	workdaysPerWeek = 5
)

// WeeklyExpense is a weekly spending intent to be spread over single days.
type WeeklyExpense struct {
	StartDate       Date
	Amount          decimal.Decimal
	IncludeWeekends bool
	Category        Category
	Description     string
}

func (w WeeklyExpense) Validate() error {
	if err := w.StartDate.Validate(); err != nil {
		return err
	}
	if !w.Category.Valid() {
		return ErrInvalidCategory
	}
	if err := validateDescription(w.Description); err != nil {
		return err
	}
	return validateAmount(w.Amount)
}

// Divisor is the number of days the weekly amount is split by: 7 with
// weekends, 5 without. It does not depend on the start date.
func (w WeeklyExpense) Divisor() int {
	if w.IncludeWeekends {
		return daysPerWeek
	}
	return workdaysPerWeek
}

// DailyAmount is the per-day share rounded to cents.
func (w WeeklyExpense) DailyAmount() decimal.Decimal {
	return w.Amount.Div(decimal.NewFromInt(int64(w.Divisor()))).Round(2)
}

// Days returns the target days: the 7 days from StartDate, minus Saturday and
// Sunday when weekends are excluded.
func (w WeeklyExpense) Days() []Date {
	days := make([]Date, 0, daysPerWeek)
	for offset := 0; offset < daysPerWeek; offset++ {
		day := w.StartDate.AddDays(offset)
		if !w.IncludeWeekends && day.IsWeekend() {
			continue
		}
		days = append(days, day)
	}
	return days
}

// SuccessMessage is the acknowledgment shown once every day has been stored.
func (w WeeklyExpense) SuccessMessage() string {
	if w.IncludeWeekends {
		return fmt.Sprintf("Weekly expense from %s added successfully!", w.StartDate)
	}
	return fmt.Sprintf("Weekly expense from %s (excluding weekends) added successfully!", w.StartDate)
}

// PlanWeekly expands a weekly intent into one expense per target day.
//
// The daily amount uses the fixed divisor rather than len(Days()). A 7-day
// window always holds exactly five weekdays, so the two agree and the planned
// total differs from w.Amount only by cent rounding (e.g. 100/7).
func PlanWeekly(w WeeklyExpense) ([]Expense, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	daily := w.DailyAmount()
	days := w.Days()
	entries := make([]Expense, 0, len(days))
	for _, day := range days {
		entries = append(entries, Expense{
			Date:        day,
			Category:    w.Category,
			Description: w.Description,
			Amount:      daily,
		})
	}
	return entries, nil
}
