package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// Events fired on the page through the HX-Trigger header. app.js listens for
// the notification and reset events.
const (
	eventTransactionCreated = "transaction:created"
	eventFormReset          = "form:reset"
	eventNotification       = "show-notification"
)

type toastLevel string

const (
	toastSuccess toastLevel = "success"
	toastWarning toastLevel = "warning"
	toastError   toastLevel = "error"
)

// toastDuration is how long each level stays on screen, in milliseconds.
var toastDuration = map[toastLevel]int{
	toastSuccess: 3000,
	toastError:   5000,
	toastWarning: 8000,
}

// fragment is the HTML snippet a form swaps in below itself, together with
// the events the page reacts to.
type fragment struct {
	status  int
	class   string
	message string
	events  map[string]any
}

func okFragment(message string) *fragment {
	return &fragment{status: http.StatusOK, class: "success", message: message, events: map[string]any{}}
}

func errorFragment(status int, message string) *fragment {
	return &fragment{status: status, class: "error", message: message, events: map[string]any{}}
}

// created tells listeners that count rows of kind were stored.
func (f *fragment) created(kind string, count int) *fragment {
	f.events[eventTransactionCreated] = map[string]any{"kind": kind, "count": count}
	return f
}

func (f *fragment) resetForm() *fragment {
	f.events[eventFormReset] = struct{}{}
	return f
}

// toast repeats the fragment message as a notification.
func (f *fragment) toast(level toastLevel) *fragment {
	f.events[eventNotification] = map[string]any{
		"type":     string(level),
		"message":  f.message,
		"duration": toastDuration[level],
	}
	return f
}

func (f *fragment) write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if len(f.events) > 0 {
		if events, err := json.Marshal(f.events); err == nil {
			w.Header().Set("HX-Trigger", string(events))
		}
	}
	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(`<div class="` + f.class + `">` + template.HTMLEscapeString(f.message) + `</div>`))
}
