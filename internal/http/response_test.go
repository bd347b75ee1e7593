package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func triggers(t *testing.T, w *httptest.ResponseRecorder) map[string]map[string]any {
	t.Helper()
	raw := w.Header().Get("HX-Trigger")
	if raw == "" {
		return nil
	}
	var out map[string]map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %q: %v", raw, err)
	}
	return out
}

func TestOKFragment(t *testing.T) {
	w := httptest.NewRecorder()
	okFragment("Expense of $ 5.00 added <ok>").
		created("expense", 7).
		resetForm().
		toast(toastSuccess).
		write(w)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if got := w.Body.String(); got != `<div class="success">Expense of $ 5.00 added &lt;ok&gt;</div>` {
		t.Errorf("body = %q", got)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	events := triggers(t, w)
	if c := events[eventTransactionCreated]; c["kind"] != "expense" || c["count"] != float64(7) {
		t.Errorf("transaction event = %v", c)
	}
	if _, ok := events[eventFormReset]; !ok {
		t.Error("form reset event missing")
	}
	if n := events[eventNotification]; n["type"] != "success" || n["duration"] != float64(3000) || n["message"] != "Expense of $ 5.00 added <ok>" {
		t.Errorf("notification = %v", n)
	}
}

func TestErrorFragment(t *testing.T) {
	tests := []struct {
		name       string
		frag       *fragment
		wantStatus int
		wantToast  string
		wantMs     float64
	}{
		{"validation", errorFragment(http.StatusUnprocessableEntity, "Description is required").toast(toastError), 422, "error", 5000},
		{"partial write", errorFragment(http.StatusInternalServerError, "3 of 7 days").toast(toastWarning), 500, "warning", 8000},
		{"bad format", errorFragment(http.StatusBadRequest, "Invalid request format"), 400, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.frag.write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.HasPrefix(w.Body.String(), `<div class="error">`) {
				t.Errorf("body = %q", w.Body.String())
			}
			events := triggers(t, w)
			if tt.wantToast == "" {
				if events != nil {
					t.Errorf("unexpected events %v", events)
				}
				return
			}
			n := events[eventNotification]
			if n["type"] != tt.wantToast || n["duration"] != tt.wantMs {
				t.Errorf("notification = %v", n)
			}
		})
	}
}

func TestErrorFragmentEscapesHTML(t *testing.T) {
	w := httptest.NewRecorder()
	errorFragment(http.StatusBadRequest, "<script>alert('xss')</script>").write(w)

	body := w.Body.String()
	if strings.Contains(body, "<script>") || !strings.Contains(body, "&lt;script&gt;") {
		t.Errorf("message not escaped: %s", body)
	}
}
