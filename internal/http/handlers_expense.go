package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/services"
)

type expensePageData struct {
	Active     string
	Today      string
	Categories []core.Category
	Currency   string
}

func (s *Server) handleExpensePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "expense_page", expensePageData{
		Active:     "expenses",
		Today:      core.Today().String(),
		Categories: core.AllCategories,
		Currency:   s.currency,
	})
}

// writeContext detaches a submission from the client connection: once the
// first insert starts the burst runs to completion or to a storage error.
func writeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), writeTimeout)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		errorFragment(http.StatusBadRequest, "Invalid request format").write(w)
		return
	}

	date, err := ParseDateField(p.Get("date"))
	if err != nil {
		s.writeError(w, r, "expense", err)
		return
	}
	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		s.writeError(w, r, "expense", err)
		return
	}

	ctx, cancel := writeContext(r)
	defer cancel()

	saved, err := s.ledger.AddExpense(ctx, core.Expense{
		Date:        date,
		Category:    core.Category(p.Get("category")),
		Description: p.Get("description"),
		Amount:      amount,
	})
	if err != nil {
		s.writeError(w, r, "expense", err)
		return
	}
	atomic.AddInt64(&s.metrics.expensesCreated, 1)

	msg := fmt.Sprintf("Expense of %s added successfully!", core.FormatAmount(s.currency, saved.Amount))
	okFragment(msg).
		created("expense", 1).
		resetForm().
		toast(toastSuccess).
		write(w)
}

func (s *Server) handleCreateWeekly(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		errorFragment(http.StatusBadRequest, "Invalid request format").write(w)
		return
	}

	start, err := ParseDateField(p.Get("start_date"))
	if err != nil {
		s.writeError(w, r, "weekly expense", err)
		return
	}
	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		s.writeError(w, r, "weekly expense", err)
		return
	}

	ctx, cancel := writeContext(r)
	defer cancel()

	result, err := s.ledger.AddWeekly(ctx, core.WeeklyExpense{
		StartDate:       start,
		Amount:          amount,
		IncludeWeekends: ParseBoolField(p.Get("include_weekends")),
		Category:        core.Category(p.Get("category")),
		Description:     p.Get("description"),
	})
	if err != nil {
		s.writeError(w, r, "weekly expense", err)
		return
	}
	atomic.AddInt64(&s.metrics.weeklyCreated, 1)
	atomic.AddInt64(&s.metrics.expensesCreated, int64(len(result.Entries)))

	msg := result.Message()
	okFragment(msg).
		created("expense", len(result.Entries)).
		resetForm().
		toast(toastSuccess).
		write(w)
}

// validationMessage turns a validation sentinel into text for the form.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyDescription):
		return "Description is required"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Amount must be a number greater than zero"
	case errors.Is(err, core.ErrInvalidDate):
		return "Date must be in YYYY-MM-DD format"
	case errors.Is(err, core.ErrInvalidCategory):
		return "Please choose a valid category"
	case errors.Is(err, core.ErrInvalidSource):
		return "Please choose a valid source"
	default:
		return "Invalid data"
	}
}

// writeError maps ledger errors onto responses: validation 422, a weekly run
// that stopped part way and any other failure 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, what string, err error) {
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentLedger)

	if core.IsValidationError(err) {
		logger.InfoContext(r.Context(), "Rejected invalid submission",
			applog.FieldOperation, applog.OpValidate,
			applog.FieldKind, what,
			applog.FieldError, err)
		msg := validationMessage(err)
		errorFragment(http.StatusUnprocessableEntity, msg).
			toast(toastError).
			write(w)
		return
	}

	var partial *services.PartialWriteError
	if errors.As(err, &partial) {
		logger.ErrorContext(r.Context(), "Weekly expense partially saved",
			applog.FieldOperation, applog.OpCreate,
			"written", partial.Written,
			"planned", partial.Planned,
			applog.FieldError, err)
		msg := fmt.Sprintf("Failed to save weekly expense: %d of %d days were saved before the error", partial.Written, partial.Planned)
		// The saved days stay, so the transactions view still has to refresh.
		errorFragment(http.StatusInternalServerError, msg).
			created("expense", partial.Written).
			toast(toastWarning).
			write(w)
		return
	}

	logger.ErrorContext(r.Context(), "Failed to save transaction",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldKind, what,
		applog.FieldError, err)
	msg := "Failed to save " + what
	errorFragment(http.StatusInternalServerError, msg).
		toast(toastError).
		write(w)
}
