package http

import (
	"bytes"
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/reporting"
)

// transactionRow is one line of the transactions table, shared by both kinds.
type transactionRow struct {
	ID          int64
	Date        core.Date
	Label       string
	Description string
	Amount      decimal.Decimal
}

type transactionsPageData struct {
	Active      string
	Kind        TransactionKind
	LabelHeader string
	Rows        []transactionRow
	Total       decimal.Decimal
	DownloadURL string
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	data := transactionsPageData{
		Active: "transactions",
		Kind:   ParseTransactionKind(r.URL.Query()),
		Total:  decimal.Zero,
	}

	switch data.Kind {
	case KindIncome:
		income, err := s.store.FetchAllIncome(ctx)
		if err != nil {
			s.loadFailed(w, r, err)
			return
		}
		data.LabelHeader = "Source"
		data.DownloadURL = "/transactions/income.csv"
		for _, i := range income {
			data.Rows = append(data.Rows, transactionRow{i.ID, i.Date, string(i.Source), i.Description, i.Amount})
			data.Total = data.Total.Add(i.Amount)
		}
	default:
		expenses, err := s.store.FetchAllExpenses(ctx)
		if err != nil {
			s.loadFailed(w, r, err)
			return
		}
		data.LabelHeader = "Category"
		data.DownloadURL = "/transactions/expenses.csv"
		for _, e := range expenses {
			data.Rows = append(data.Rows, transactionRow{e.ID, e.Date, string(e.Category), e.Description, e.Amount})
			data.Total = data.Total.Add(e.Amount)
		}
	}

	s.render(w, r, "transactions_page", data)
}

func (s *Server) handleExpensesCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	expenses, err := s.store.FetchAllExpenses(ctx)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := reporting.WriteExpensesCSV(&buf, expenses); err != nil {
		s.loadFailed(w, r, err)
		return
	}
	writeCSV(w, "expenses.csv", buf.Bytes())
}

func (s *Server) handleIncomeCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	income, err := s.store.FetchAllIncome(ctx)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := reporting.WriteIncomeCSV(&buf, income); err != nil {
		s.loadFailed(w, r, err)
		return
	}
	writeCSV(w, "income.csv", buf.Bytes())
}

func writeCSV(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// loadFailed reports a storage error on a read path.
func (s *Server) loadFailed(w http.ResponseWriter, r *http.Request, err error) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentStorage).ErrorContext(r.Context(), "Failed to load transactions",
		applog.FieldOperation, applog.OpList,
		applog.FieldPath, r.URL.Path,
		applog.FieldError, err)
	errorFragment(http.StatusInternalServerError, "Failed to load transactions, please try again later").write(w)
}
