package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used on disk, in CSV and in forms.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar day stored as midnight UTC.
	Date struct {
		time.Time
	}

	// Money is an amount in minor units (cents).
	Money struct {
		Cents int64
	}

	// Metadata carries what the natural-language parser reported alongside an expense.
	Metadata struct {
		Merchant      string  `json:"merchant,omitempty"`
		PaymentMethod string  `json:"paymentMethod,omitempty"`
		Confidence    float64 `json:"confidence,omitempty"`
		Source        string  `json:"source,omitempty"`
	}

	Expense struct {
		ID            string        `json:"id"`
		Description   string        `json:"description"`
		Amount        Money         `json:"amount"`
		Category      Category      `json:"category"`
		Date          Date          `json:"date"`
		PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
		Tags          []string      `json:"tags,omitempty"`
		Metadata      *Metadata     `json:"metadata,omitempty"`
		CreatedAt     time.Time     `json:"createdAt"`
	}

	// ExpensePatch holds the fields an update replaces; nil fields are left untouched.
	ExpensePatch struct {
		Description   *string
		Amount        *Money
		Category      *Category
		Date          *Date
		PaymentMethod *PaymentMethod
		Tags          []string
	}
)

// Sources recorded in Metadata.Source
const (
	SourceText   = "natural-language"
	SourceManual = "manual"
	SourceWeb    = "web"
	SourceImport = "import"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidDate      = errors.New("invalid date")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MonthKey returns the YYYY-MM bucket of the date.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Apply returns a copy of e with the patch fields replaced.
func (e Expense) Apply(p ExpensePatch) Expense {
	if p.Description != nil {
		e.Description = strings.TrimSpace(*p.Description)
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.PaymentMethod != nil {
		e.PaymentMethod = *p.PaymentMethod
	}
	if p.Tags != nil {
		e.Tags = append([]string(nil), p.Tags...)
	}
	return e
}

// IsEmpty reports whether the patch changes nothing.
func (p ExpensePatch) IsEmpty() bool {
	return p.Description == nil && p.Amount == nil && p.Category == nil &&
		p.Date == nil && p.PaymentMethod == nil && p.Tags == nil
}
