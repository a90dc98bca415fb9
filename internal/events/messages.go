package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"expenses/internal/core"
)

// Type names what happened to an expense.
type Type string

const (
	TypeCreated Type = "created"
	TypeUpdated Type = "updated"
	TypeDeleted Type = "deleted"
)

var ErrInvalidEvent = errors.New("invalid event")

// Event carries the full expense for created and updated events.
// Deleted events only need ExpenseID.
type Event struct {
	Type      Type          `json:"type"`
	ExpenseID string        `json:"expenseId"`
	Expense   *core.Expense `json:"expense,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func Created(e core.Expense) *Event {
	return &Event{Type: TypeCreated, ExpenseID: e.ID, Expense: &e, Timestamp: time.Now()}
}

func Updated(e core.Expense) *Event {
	return &Event{Type: TypeUpdated, ExpenseID: e.ID, Expense: &e, Timestamp: time.Now()}
}

func Deleted(id string) *Event {
	return &Event{Type: TypeDeleted, ExpenseID: id, Timestamp: time.Now()}
}

// Validate checks the event is complete enough to be applied.
func (e *Event) Validate() error {
	if e.ExpenseID == "" {
		return fmt.Errorf("%w: missing expense id", ErrInvalidEvent)
	}
	switch e.Type {
	case TypeCreated, TypeUpdated:
		if e.Expense == nil {
			return fmt.Errorf("%w: %s event without expense", ErrInvalidEvent, e.Type)
		}
	case TypeDeleted:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	}
	return nil
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes and validates an event.
func FromJSON(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}
