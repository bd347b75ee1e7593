package http

import (
	"context"
	"net/http"

	"tracker/internal/chart"
	"tracker/internal/core"
	applog "tracker/internal/log"
)

type analyticsPageData struct {
	Active        string
	Summary       core.Summary
	Empty         bool
	ByCategory    chart.BarChart
	BySource      chart.BarChart
	ExpenseSeries chart.LineChart
	IncomeSeries  chart.LineChart
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	summary, err := s.loader.Summary(ctx)
	if err != nil {
		s.loadFailed(w, r, err)
		return
	}

	s.render(w, r, "analytics_page", analyticsPageData{
		Active:        "analytics",
		Summary:       summary,
		Empty:         summary.Empty(),
		ByCategory:    chart.Bars(groupPoints(summary.ByCategory)),
		BySource:      chart.Bars(groupPoints(summary.BySource)),
		ExpenseSeries: chart.Line(dayPoints(summary.ExpenseSeries)),
		IncomeSeries:  chart.Line(dayPoints(summary.IncomeSeries)),
	})
}

func groupPoints(groups []core.GroupAmount) []chart.Point {
	points := make([]chart.Point, 0, len(groups))
	for _, g := range groups {
		points = append(points, chart.Point{Label: g.Name, Value: g.Amount})
	}
	return points
}

func dayPoints(days []core.DayAmount) []chart.Point {
	points := make([]chart.Point, 0, len(days))
	for _, d := range days {
		points = append(points, chart.Point{Label: d.Date.String(), Value: d.Amount})
	}
	return points
}

// summaryResponse is the JSON shape of /api/summary. Amounts are strings with
// two decimals so clients never see float rounding.
type summaryResponse struct {
	Currency      string          `json:"currency"`
	Empty         bool            `json:"empty"`
	TotalIncome   string          `json:"total_income"`
	TotalExpense  string          `json:"total_expense"`
	Balance       string          `json:"balance"`
	ExpenseCount  int             `json:"expense_count"`
	IncomeCount   int             `json:"income_count"`
	ByCategory    []labelAmount   `json:"by_category"`
	BySource      []labelAmount   `json:"by_source"`
	ExpenseSeries []dateAmountDTO `json:"expense_series"`
	IncomeSeries  []dateAmountDTO `json:"income_series"`
}

type labelAmount struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type dateAmountDTO struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
}

func newSummaryResponse(currency string, s core.Summary) summaryResponse {
	resp := summaryResponse{
		Currency:      currency,
		Empty:         s.Empty(),
		TotalIncome:   s.TotalIncome.StringFixed(2),
		TotalExpense:  s.TotalExpense.StringFixed(2),
		Balance:       s.Balance.StringFixed(2),
		ExpenseCount:  s.ExpenseCount,
		IncomeCount:   s.IncomeCount,
		ByCategory:    make([]labelAmount, 0, len(s.ByCategory)),
		BySource:      make([]labelAmount, 0, len(s.BySource)),
		ExpenseSeries: make([]dateAmountDTO, 0, len(s.ExpenseSeries)),
		IncomeSeries:  make([]dateAmountDTO, 0, len(s.IncomeSeries)),
	}
	for _, g := range s.ByCategory {
		resp.ByCategory = append(resp.ByCategory, labelAmount{g.Name, g.Amount.StringFixed(2)})
	}
	for _, g := range s.BySource {
		resp.BySource = append(resp.BySource, labelAmount{g.Name, g.Amount.StringFixed(2)})
	}
	for _, d := range s.ExpenseSeries {
		resp.ExpenseSeries = append(resp.ExpenseSeries, dateAmountDTO{d.Date.String(), d.Amount.StringFixed(2)})
	}
	for _, d := range s.IncomeSeries {
		resp.IncomeSeries = append(resp.IncomeSeries, dateAmountDTO{d.Date.String(), d.Amount.StringFixed(2)})
	}
	return resp
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	summary, err := s.loader.Summary(ctx)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Failed to build summary",
			applog.FieldOperation, applog.OpSummary,
			applog.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load transactions"})
		return
	}
	writeJSON(w, http.StatusOK, newSummaryResponse(s.currency, summary))
}
