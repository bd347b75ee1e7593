package http

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"tracker/internal/core"
)

type incomePageData struct {
	Active   string
	Today    string
	Sources  []core.Source
	Currency string
}

func (s *Server) handleIncomePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "income_page", incomePageData{
		Active:   "income",
		Today:    core.Today().String(),
		Sources:  core.AllSources,
		Currency: s.currency,
	})
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		errorFragment(http.StatusBadRequest, "Invalid request format").write(w)
		return
	}

	date, err := ParseDateField(p.Get("date"))
	if err != nil {
		s.writeError(w, r, "income", err)
		return
	}
	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		s.writeError(w, r, "income", err)
		return
	}

	ctx, cancel := writeContext(r)
	defer cancel()

	saved, err := s.ledger.AddIncome(ctx, core.Income{
		Date:        date,
		Source:      core.Source(p.Get("source")),
		Description: p.Get("description"),
		Amount:      amount,
	})
	if err != nil {
		s.writeError(w, r, "income", err)
		return
	}
	atomic.AddInt64(&s.metrics.incomeCreated, 1)

	msg := fmt.Sprintf("Income of %s added successfully!", core.FormatAmount(s.currency, saved.Amount))
	okFragment(msg).
		created("income", 1).
		resetForm().
		toast(toastSuccess).
		write(w)
}
