package reporting

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"tracker/internal/core"
)

func TestExpensesCSVRoundTrip(t *testing.T) {
	expenses, _ := fixtures()
	expenses[0].Description = `power, "grid"`

	var buf bytes.Buffer
	if err := WriteExpensesCSV(&buf, expenses); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "id,date,category,description,amount" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if len(lines) != len(expenses)+1 {
		t.Fatalf("expected %d lines, got %d", len(expenses)+1, len(lines))
	}
	if lines[2] != "2,2025-01-06,Food,lunch,12.50" {
		t.Fatalf("unexpected row %q", lines[2])
	}

	got, err := ReadExpensesCSV(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(expenses) {
		t.Fatalf("expected %d rows, got %d", len(expenses), len(got))
	}
	for i := range got {
		if got[i].ID != expenses[i].ID || got[i].Date.String() != expenses[i].Date.String() ||
			got[i].Category != expenses[i].Category || got[i].Description != expenses[i].Description ||
			!got[i].Amount.Equal(expenses[i].Amount) {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, got[i], expenses[i])
		}
	}
}

func TestExpensesCSVRoundTripMultilineDescription(t *testing.T) {
	expenses, _ := fixtures()
	expenses[0].Description = core.NormalizeDescription("line1\r\nline2")
	expenses[1].Description = core.NormalizeDescription("a\rb\nc")

	var buf bytes.Buffer
	if err := WriteExpensesCSV(&buf, expenses); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadExpensesCSV(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(expenses) {
		t.Fatalf("expected %d rows, got %d", len(expenses), len(got))
	}
	for i := range got {
		if got[i].Description != expenses[i].Description {
			t.Errorf("row %d description = %q, want %q", i, got[i].Description, expenses[i].Description)
		}
	}
}

func TestIncomeCSVRoundTrip(t *testing.T) {
	_, income := fixtures()
	var buf bytes.Buffer
	if err := WriteIncomeCSV(&buf, income); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "id,date,source,description,amount\n") {
		t.Fatalf("unexpected header in %q", buf.String())
	}
	got, err := ReadIncomeCSV(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[1].Source != core.Freelance || !got[1].Amount.Equal(d("250.75")) {
		t.Fatalf("unexpected rows %+v", got)
	}
}

func TestEmptyCSVHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteIncomeCSV(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "id,date,source,description,amount\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
	got, err := ReadIncomeCSV(&buf)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no rows, got %v err=%v", got, err)
	}
}

func TestReadCSVErrors(t *testing.T) {
	if _, err := ReadExpensesCSV(strings.NewReader("id,date,source,description,amount\n")); !errors.Is(err, ErrBadHeader) {
		t.Fatalf("expected ErrBadHeader, got %v", err)
	}
	if _, err := ReadExpensesCSV(strings.NewReader("id,date,category,description,amount\nx,2025-01-01,Food,a,1\n")); err == nil {
		t.Fatalf("expected id error")
	}
	if _, err := ReadExpensesCSV(strings.NewReader("id,date,category,description,amount\n1,01/01/2025,Food,a,1\n")); err == nil {
		t.Fatalf("expected date error")
	}
}
