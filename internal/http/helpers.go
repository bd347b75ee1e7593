package http

import (
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

// sanitizeInput removes potentially dangerous characters, normalizes line
// breaks to LF and trims whitespace.
func sanitizeInput(s string) string {
	s = core.NormalizeDescription(strings.TrimSpace(s))
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 {
			return -1
		}
		return r
	}, s)
	return result
}

// templateFuncs are available to every page. money renders amounts with the
// configured currency symbol.
func templateFuncs(currency string) template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return core.FormatAmount(currency, d)
		},
		"fixed": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"date": func(d core.Date) string {
			return d.String()
		},
		"negative": func(d decimal.Decimal) bool {
			return d.IsNegative()
		},
	}
}
