package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Shopping      Category = "Shopping"
	Bills         Category = "Bills"
	Entertainment Category = "Entertainment"
	OtherCategory Category = "Other"
)

const (
	Salary      Source = "Salary"
	Business    Source = "Business"
	Investments Source = "Investments"
	Freelance   Source = "Freelance"
	OtherSource Source = "Other"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

type (
	// Category classifies an expense.
	Category string

	// Source classifies an income.
	Source string

	// Date is a calendar day stored as UTC midnight.
	Date struct {
		time.Time
	}

	Expense struct {
		ID          int64
		Date        Date
		Category    Category
		Description string
		Amount      decimal.Decimal
	}

	Income struct {
		ID          int64
		Date        Date
		Source      Source
		Description string
		Amount      decimal.Decimal
	}
)

// AllCategories lists expense categories in display order.
var AllCategories = []Category{Food, Transport, Shopping, Bills, Entertainment, OtherCategory}

// AllSources lists income sources in display order.
var AllSources = []Source{Salary, Business, Investments, Freelance, OtherSource}

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidSource    = errors.New("invalid source")
)

// IsValidationError reports whether err stems from input validation
// rather than from storage or transport.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrEmptyDescription) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidSource)
}

func (c Category) Valid() bool {
	for _, v := range AllCategories {
		if c == v {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

func (s Source) Valid() bool {
	for _, v := range AllSources {
		if s == v {
			return true
		}
	}
	return false
}

func (s Source) String() string { return string(s) }

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the clock part of t, keeping its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// IsWeekend reports whether d falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func validateAmount(a decimal.Decimal) error {
	if !a.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func validateDescription(desc string) error {
	if len(strings.TrimSpace(desc)) == 0 {
		return ErrEmptyDescription
	}
	return nil
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NormalizeDescription turns CRLF and lone CR line breaks into LF. Stored
// descriptions only ever contain LF, so a CSV export reads back unchanged.
func NormalizeDescription(desc string) string {
	return lineEndings.Replace(desc)
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if err := validateDescription(e.Description); err != nil {
		return err
	}
	return validateAmount(e.Amount)
}

func (i Income) Validate() error {
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if !i.Source.Valid() {
		return ErrInvalidSource
	}
	if err := validateDescription(i.Description); err != nil {
		return err
	}
	return validateAmount(i.Amount)
}
