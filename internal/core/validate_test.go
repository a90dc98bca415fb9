package core

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name string
		in   ExpenseInput
		want InputErrors
	}{
		{
			name: "valid input",
			in:   ExpenseInput{Description: "Lunch", Amount: Money{Cents: 2550}, Date: "2024-01-15"},
		},
		{
			name: "date is optional",
			in:   ExpenseInput{Description: "Lunch", Amount: Money{Cents: 1}},
		},
		{
			name: "empty description",
			in:   ExpenseInput{Description: "  ", Amount: Money{Cents: 100}},
			want: InputErrors{MsgDescriptionRequired},
		},
		{
			name: "zero amount",
			in:   ExpenseInput{Description: "Lunch"},
			want: InputErrors{MsgAmountPositive},
		},
		{
			name: "negative amount",
			in:   ExpenseInput{Description: "Lunch", Amount: Money{Cents: -500}},
			want: InputErrors{MsgAmountPositive},
		},
		{
			name: "everything wrong",
			in:   ExpenseInput{Amount: Money{Cents: -1}, Date: "yesterday"},
			want: InputErrors{MsgDescriptionRequired, MsgAmountPositive, MsgInvalidDate},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.in)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("ValidateInput() = %v, want nil", err)
				}
				return
			}
			var got InputErrors
			if !errors.As(err, &got) {
				t.Fatalf("ValidateInput() = %v, want InputErrors", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ValidateInput() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormData_Validate(t *testing.T) {
	now := time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)
	valid := FormData{
		Description:   "Groceries",
		Amount:        "42.10",
		Category:      "food",
		Date:          "2024-06-15",
		PaymentMethod: "cash",
	}
	if errs := valid.Validate(now); errs.HasErrors() {
		t.Fatalf("valid form: %v", errs)
	}

	tests := []struct {
		name  string
		edit  func(*FormData)
		field string
		msg   string
	}{
		{"missing description", func(f *FormData) { f.Description = " " }, "description", "Description is required"},
		{"short description", func(f *FormData) { f.Description = "ab" }, "description", "Description must be at least 3 characters"},
		{"long description", func(f *FormData) { f.Description = strings.Repeat("x", 101) }, "description", "Description must be less than 100 characters"},
		{"missing amount", func(f *FormData) { f.Amount = "" }, "amount", "Amount is required"},
		{"non-numeric amount", func(f *FormData) { f.Amount = "ten" }, "amount", "Amount must be a valid number"},
		{"zero amount", func(f *FormData) { f.Amount = "0" }, "amount", "Amount must be greater than 0"},
		{"huge amount", func(f *FormData) { f.Amount = "1000000.01" }, "amount", "Amount must be less than 1,000,000"},
		{"missing category", func(f *FormData) { f.Category = "" }, "category", "Category is required"},
		{"missing date", func(f *FormData) { f.Date = "" }, "date", "Date is required"},
		{"future date", func(f *FormData) { f.Date = "2024-06-16" }, "date", "Date cannot be in the future"},
		{"missing payment method", func(f *FormData) { f.PaymentMethod = "" }, "paymentMethod", "Payment method is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.edit(&f)
			errs := f.Validate(now)
			if len(errs) != 1 || errs[tt.field] != tt.msg {
				t.Errorf("Validate() = %v, want %s=%q", errs, tt.field, tt.msg)
			}
		})
	}
}

func TestFormData_Expense(t *testing.T) {
	f := FormData{Description: " Bus ", Amount: "2,40", Category: "transportation", Date: "2024-02-01", PaymentMethod: "debit-card"}
	e, err := f.Expense()
	if err != nil {
		t.Fatal(err)
	}
	if e.Description != "Bus" || e.Amount.Cents != 240 || e.PaymentMethod != PaymentDebitCard {
		t.Errorf("Expense() = %+v", e)
	}
	if back := FormFromExpense(e); back.Amount != "2.40" || back.Date != "2024-02-01" {
		t.Errorf("FormFromExpense() = %+v", back)
	}
}
