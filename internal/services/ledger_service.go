package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tracker/internal/amqp"
	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/storage"
)

// Publisher is notified after a transaction has been persisted.
type Publisher interface {
	PublishTransaction(ctx context.Context, msg *amqp.TransactionMessage) error
	Close() error
}

// PartialWriteError reports a weekly submission that stopped part way.
// Rows already written stay persisted.
type PartialWriteError struct {
	Written int
	Planned int
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("weekly expense: %d of %d days written: %v", e.Written, e.Planned, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// WeeklyResult acknowledges a completed weekly submission.
type WeeklyResult struct {
	StartDate        core.Date
	ExcludedWeekends bool
	Entries          []core.Expense
}

func (r WeeklyResult) Message() string {
	return core.WeeklyExpense{StartDate: r.StartDate, IncludeWeekends: !r.ExcludedWeekends}.SuccessMessage()
}

// LedgerService validates and records transactions, then announces them
// through the optional publisher.
type LedgerService struct {
	store          storage.Gateway
	publisher      Publisher
	publishTimeout time.Duration
}

const defaultPublishTimeout = 5 * time.Second

// NewLedgerService builds the service. publisher may be nil.
func NewLedgerService(store storage.Gateway, publisher Publisher) *LedgerService {
	return &LedgerService{
		store:          store,
		publisher:      publisher,
		publishTimeout: defaultPublishTimeout,
	}
}

// AddExpense validates e and inserts exactly one row.
func (s *LedgerService) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e.Description = core.NormalizeDescription(e.Description)
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	saved, err := s.store.InsertExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	logRecorded(ctx, "expense", saved.Date, saved.Category.String(), saved.Amount.StringFixed(2))
	s.publish(ctx, amqp.NewExpenseMessage(saved))
	return saved, nil
}

// AddIncome validates i and inserts exactly one row.
func (s *LedgerService) AddIncome(ctx context.Context, i core.Income) (core.Income, error) {
	i.Description = core.NormalizeDescription(i.Description)
	if err := i.Validate(); err != nil {
		return core.Income{}, err
	}
	saved, err := s.store.InsertIncome(ctx, i)
	if err != nil {
		return core.Income{}, fmt.Errorf("save income: %w", err)
	}
	logRecorded(ctx, "income", saved.Date, saved.Source.String(), saved.Amount.StringFixed(2))
	s.publish(ctx, amqp.NewIncomeMessage(saved))
	return saved, nil
}

// AddWeekly spreads w over its target days, inserting one row per day in
// order. A failed insert stops the run and earlier rows are kept. Events for
// the stored rows go out once the inserts are done, so a slow broker never
// eats into the time the inserts have.
func (s *LedgerService) AddWeekly(ctx context.Context, w core.WeeklyExpense) (WeeklyResult, error) {
	w.Description = core.NormalizeDescription(w.Description)
	planned, err := core.PlanWeekly(w)
	if err != nil {
		return WeeklyResult{}, err
	}

	result := WeeklyResult{
		StartDate:        w.StartDate,
		ExcludedWeekends: !w.IncludeWeekends,
		Entries:          make([]core.Expense, 0, len(planned)),
	}
	for _, e := range planned {
		saved, err := s.store.InsertExpense(ctx, e)
		if err != nil {
			slog.ErrorContext(ctx, "Weekly expense interrupted",
				"written", len(result.Entries),
				"planned", len(planned),
				"failed_date", e.Date.String(),
				"error", err)
			s.publishExpenses(ctx, result.Entries)
			return result, &PartialWriteError{Written: len(result.Entries), Planned: len(planned), Err: err}
		}
		result.Entries = append(result.Entries, saved)
	}
	s.publishExpenses(ctx, result.Entries)

	slog.InfoContext(ctx, "Weekly expense recorded",
		"start_date", w.StartDate.String(),
		"days", len(result.Entries),
		"daily_amount", w.DailyAmount().StringFixed(2),
		"exclude_weekends", result.ExcludedWeekends)
	return result, nil
}

func logRecorded(ctx context.Context, kind string, date core.Date, label, amount string) {
	fields := applog.NewFields().
		WithComponent(applog.ComponentLedger).
		WithOperation(applog.OpCreate).
		WithTransaction(kind, date.String(), label, amount)
	slog.InfoContext(ctx, "Transaction recorded", fields.ToSlice()...)
}

// publish announces one stored row. Rows are already saved, so a broker
// problem is logged and never returned. The publish gets its own deadline
// instead of sharing what is left of the caller's.
func (s *LedgerService) publish(ctx context.Context, msg *amqp.TransactionMessage) bool {
	if s.publisher == nil {
		return true
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.publisher.PublishTransaction(pctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction message",
			applog.FieldComponent, applog.ComponentAMQP,
			applog.FieldKind, msg.Kind,
			"id", msg.ID,
			applog.FieldError, err)
		return false
	}
	return true
}

// publishExpenses stops at the first failure; the broker is unlikely to
// recover within the same request.
func (s *LedgerService) publishExpenses(ctx context.Context, entries []core.Expense) {
	for i, e := range entries {
		if !s.publish(ctx, amqp.NewExpenseMessage(e)) {
			if skipped := len(entries) - i - 1; skipped > 0 {
				slog.WarnContext(ctx, "Skipped remaining transaction messages",
					applog.FieldComponent, applog.ComponentAMQP,
					"skipped", skipped)
			}
			return
		}
	}
}

// Close closes both storage and publisher connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}
