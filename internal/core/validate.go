package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Messages reported by ValidateInput.
const (
	MsgDescriptionRequired = "Description is required"
	MsgAmountPositive      = "Amount must be a positive number"
	MsgInvalidDate         = "Invalid date format"
)

// ExpenseInput is an expense described field by field, before an ID is assigned.
type ExpenseInput struct {
	Description   string
	Amount        Money
	Category      string
	Date          string // YYYY-MM-DD or RFC 3339; empty means today
	PaymentMethod string
	Tags          []string
}

// InputErrors collects every problem found in an ExpenseInput.
type InputErrors []string

func (e InputErrors) Error() string {
	return strings.Join(e, ", ")
}

// ValidateInput checks the invariants every stored expense must satisfy.
// It returns nil or an InputErrors value.
func ValidateInput(in ExpenseInput) error {
	var errs InputErrors
	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, MsgDescriptionRequired)
	}
	if in.Amount.Cents <= 0 {
		errs = append(errs, MsgAmountPositive)
	}
	if strings.TrimSpace(in.Date) != "" {
		if _, err := ParseDate(in.Date); err != nil {
			errs = append(errs, MsgInvalidDate)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// FormData is the raw web form submission.
type FormData struct {
	Description   string
	Amount        string
	Category      string
	Date          string
	PaymentMethod string
}

// FormErrors maps form field names to a single message each.
type FormErrors map[string]string

func (e FormErrors) HasErrors() bool {
	return len(e) > 0
}

var maxFormAmount = decimal.NewFromInt(1_000_000)

// Validate checks the form the way the page does before saving. Dates after
// the end of today (in now's location) are rejected.
func (f FormData) Validate(now time.Time) FormErrors {
	errs := FormErrors{}

	desc := strings.TrimSpace(f.Description)
	switch n := len([]rune(desc)); {
	case n == 0:
		errs["description"] = "Description is required"
	case n < 3:
		errs["description"] = "Description must be at least 3 characters"
	case n > 100:
		errs["description"] = "Description must be less than 100 characters"
	}

	amount := strings.TrimSpace(f.Amount)
	if amount == "" {
		errs["amount"] = "Amount is required"
	} else if d, err := decimal.NewFromString(strings.ReplaceAll(amount, ",", ".")); err != nil {
		errs["amount"] = "Amount must be a valid number"
	} else if !d.IsPositive() {
		errs["amount"] = "Amount must be greater than 0"
	} else if d.GreaterThan(maxFormAmount) {
		errs["amount"] = "Amount must be less than 1,000,000"
	}

	if f.Category == "" {
		errs["category"] = "Category is required"
	} else if !Category(f.Category).IsValid() {
		errs["category"] = "Category is invalid"
	}

	if strings.TrimSpace(f.Date) == "" {
		errs["date"] = "Date is required"
	} else if d, err := ParseDate(f.Date); err != nil {
		errs["date"] = MsgInvalidDate
	} else if d.After(DateOf(now).Time) {
		errs["date"] = "Date cannot be in the future"
	}

	if f.PaymentMethod == "" {
		errs["paymentMethod"] = "Payment method is required"
	} else if !PaymentMethod(f.PaymentMethod).IsValid() {
		errs["paymentMethod"] = "Payment method is invalid"
	}

	return errs
}

// Expense converts a form that passed Validate into an Expense without an ID.
func (f FormData) Expense() (Expense, error) {
	amount, err := ParseAmount(f.Amount)
	if err != nil {
		return Expense{}, err
	}
	date, err := ParseDate(f.Date)
	if err != nil {
		return Expense{}, err
	}
	return Expense{
		Description:   strings.TrimSpace(f.Description),
		Amount:        amount,
		Category:      Category(f.Category),
		Date:          date,
		PaymentMethod: PaymentMethod(f.PaymentMethod),
	}, nil
}

// FormFromExpense fills a form for editing.
func FormFromExpense(e Expense) FormData {
	return FormData{
		Description:   e.Description,
		Amount:        e.Amount.String(),
		Category:      string(e.Category),
		Date:          e.Date.String(),
		PaymentMethod: string(e.PaymentMethod),
	}
}
