package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"
)

// HTMX events the page listens for.
const (
	EventExpenseCreated   = "expense:created"
	EventExpenseUpdated   = "expense:updated"
	EventExpenseDeleted   = "expense:deleted"
	EventFormReset        = "form:reset"
	EventShowNotification = "show-notification"
)

const (
	successNotificationTTL = 3 * time.Second
	errorNotificationTTL   = 5 * time.Second
)

// NotificationType selects the style of a toast.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// expenseEvent is the detail of the expense:* events. An empty ID on
// expense:deleted means the list was cleared.
type expenseEvent struct {
	ID string `json:"id"`
}

type notification struct {
	Type     NotificationType `json:"type"`
	Message  string           `json:"message"`
	Duration int64            `json:"duration"`
}

// HTMXResponseBuilder collects HX-Trigger events, headers and a body, then
// writes them in one go.
type HTMXResponseBuilder struct {
	status   int
	triggers map[string]any
	headers  http.Header
	body     []byte
}

func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		status:   http.StatusOK,
		triggers: map[string]any{},
		headers:  http.Header{},
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.status = code
	return b
}

// Trigger sets the detail of one client event. A second call with the same
// name replaces the first.
func (b *HTMXResponseBuilder) Trigger(name string, detail any) *HTMXResponseBuilder {
	b.triggers[name] = detail
	return b
}

func (b *HTMXResponseBuilder) TriggerExpenseCreated(id string) *HTMXResponseBuilder {
	return b.Trigger(EventExpenseCreated, expenseEvent{ID: id})
}

func (b *HTMXResponseBuilder) TriggerExpenseUpdated(id string) *HTMXResponseBuilder {
	return b.Trigger(EventExpenseUpdated, expenseEvent{ID: id})
}

func (b *HTMXResponseBuilder) TriggerExpenseDeleted(id string) *HTMXResponseBuilder {
	return b.Trigger(EventExpenseDeleted, expenseEvent{ID: id})
}

func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger(EventFormReset, struct{}{})
}

func (b *HTMXResponseBuilder) notify(kind NotificationType, message string, ttl time.Duration) *HTMXResponseBuilder {
	return b.Trigger(EventShowNotification, notification{
		Type:     kind,
		Message:  message,
		Duration: ttl.Milliseconds(),
	})
}

func (b *HTMXResponseBuilder) TriggerSuccessNotification(message string) *HTMXResponseBuilder {
	return b.notify(NotificationSuccess, message, successNotificationTTL)
}

func (b *HTMXResponseBuilder) TriggerErrorNotification(message string) *HTMXResponseBuilder {
	return b.notify(NotificationError, message, errorNotificationTTL)
}

// Refresh asks htmx to reload the whole page.
func (b *HTMXResponseBuilder) Refresh() *HTMXResponseBuilder {
	return b.Header("HX-Refresh", "true")
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers.Set(name, value)
	return b
}

func (b *HTMXResponseBuilder) Body(content []byte) *HTMXResponseBuilder {
	b.body = content
	return b
}

func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers.Set("Content-Type", "text/html; charset=utf-8")
	b.body = []byte(html)
	return b
}

func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	h := w.Header()
	for name, values := range b.headers {
		h[name] = values
	}
	if len(b.triggers) > 0 {
		if raw, err := json.Marshal(b.triggers); err == nil {
			h.Set("HX-Trigger", string(raw))
		}
	}
	w.WriteHeader(b.status)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse is an alert fragment plus an error toast. message is
// escaped.
func ErrorResponse(status int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(status).
		TriggerErrorNotification(message).
		BodyHTML(`<div class="error" role="alert">` + template.HTMLEscapeString(message) + `</div>`)
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func UnprocessableEntityError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

func MethodNotAllowedError(allowed string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowed)
}
