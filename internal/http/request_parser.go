// Form handlers accept both form-encoded bodies (HTMX) and JSON.

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"tracker/internal/core"
)

// TransactionKind selects which table a listing or download shows.
type TransactionKind string

const (
	KindExpenses TransactionKind = "expenses"
	KindIncome   TransactionKind = "income"
)

// ParseTransactionKind reads the "type" query parameter. Anything other than
// income falls back to expenses.
func ParseTransactionKind(query url.Values) TransactionKind {
	if strings.EqualFold(strings.TrimSpace(query.Get("type")), string(KindIncome)) {
		return KindIncome
	}
	return KindExpenses
}

// ParseDateField parses a YYYY-MM-DD form value. A blank value means today.
func ParseDateField(value string) (core.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return core.Today(), nil
	}
	d, err := core.ParseDate(value)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, value)
	}
	return d, nil
}

// ParseBoolField understands checkbox values ("on") as well as true/1/yes.
func ParseBoolField(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// RequestBodyParser reads a submission sent either as a form (htmx) or as a
// JSON object with the same field names.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]interface{}
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(r.Body)
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	// Try JSON first if content looks like JSON
	if p.body[0] == '{' || p.body[0] == '[' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	// Fall back to form parsing
	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// stringValue converts an interface{} to string.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
