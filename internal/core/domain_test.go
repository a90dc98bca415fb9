package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2024-01-15", NewDate(2024, 1, 15), true},
		{" 2024-01-15 ", NewDate(2024, 1, 15), true},
		{"2024-01-15T10:30:00.000Z", NewDate(2024, 1, 15), true},
		{"2024-01-15T23:30:00-05:00", NewDate(2024, 1, 15), true},
		{"15/01/2024", Date{}, false},
		{"not a date", Date{}, false},
		{"", Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(tc.want.Time) {
				t.Errorf("ParseDate(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) err = %v, want ErrInvalidDate", tc.in, err)
		}
	}
}

func TestExpense_JSON(t *testing.T) {
	e := Expense{
		ID:            "abc",
		Description:   "Lunch",
		Amount:        Money{Cents: 2550},
		Category:      CategoryFood,
		Date:          NewDate(2024, 1, 15),
		PaymentMethod: PaymentCash,
		CreatedAt:     time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, want := range []string{`"amount":25.50`, `"date":"2024-01-15"`, `"paymentMethod":"cash"`} {
		if !strings.Contains(s, want) {
			t.Errorf("marshal missing %s in %s", want, s)
		}
	}
	if strings.Contains(s, "metadata") || strings.Contains(s, "tags") {
		t.Errorf("empty optional fields should be omitted: %s", s)
	}
}

func TestExpense_UnmarshalLegacyTimestamp(t *testing.T) {
	raw := `{"id":"1","description":"Taxi","amount":12,"category":"transportation","date":"2024-03-02T08:15:00.000Z","tags":["work"],"metadata":{"confidence":0.9}}`
	var e Expense
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		t.Fatal(err)
	}
	if e.Date.String() != "2024-03-02" || e.Amount.Cents != 1200 || e.Metadata.Confidence != 0.9 {
		t.Errorf("unexpected decode: %+v", e)
	}
	if e.PaymentMethod != "" {
		t.Errorf("payment method = %q, want empty", e.PaymentMethod)
	}
}

func TestExpense_Validate(t *testing.T) {
	valid := Expense{Description: "Lunch", Amount: Money{Cents: 1}, Date: NewDate(2024, 1, 1)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid expense: %v", err)
	}

	e := valid
	e.Description = "   "
	if !errors.Is(e.Validate(), ErrEmptyDescription) {
		t.Error("blank description should fail")
	}
	e = valid
	e.Amount = Money{}
	if !errors.Is(e.Validate(), ErrInvalidAmount) {
		t.Error("zero amount should fail")
	}
	e = valid
	e.Date = Date{}
	if !errors.Is(e.Validate(), ErrInvalidDate) {
		t.Error("zero date should fail")
	}
}

func TestExpense_Apply(t *testing.T) {
	orig := Expense{ID: "1", Description: "Lunch", Amount: Money{Cents: 1000}, Category: CategoryFood}
	desc := "  Dinner "
	amount := Money{Cents: 3000}

	got := orig.Apply(ExpensePatch{Description: &desc, Amount: &amount})

	if got.ID != "1" || got.Description != "Dinner" || got.Amount.Cents != 3000 || got.Category != CategoryFood {
		t.Errorf("Apply = %+v", got)
	}
	if orig.Description != "Lunch" {
		t.Error("Apply must not modify the receiver")
	}
	if !(ExpensePatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := map[string]Category{
		"food":           CategoryFood,
		" Food ":         CategoryFood,
		"food & dining":  CategoryFood,
		"HEALTHCARE":     CategoryHealthcare,
		"groceries":      CategoryOther,
		"":               CategoryOther,
		"transportation": CategoryTransportation,
	}
	for in, want := range cases {
		if got := NormalizeCategory(in); got != want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePaymentMethod(t *testing.T) {
	cases := map[string]PaymentMethod{
		"cash":           PaymentCash,
		"Credit Card":    PaymentCreditCard,
		"debit_card":     PaymentDebitCard,
		"digital-wallet": PaymentDigitalWallet,
	}
	for in, want := range cases {
		got, ok := ParsePaymentMethod(in)
		if !ok || got != want {
			t.Errorf("ParsePaymentMethod(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParsePaymentMethod("cheque"); ok {
		t.Error("unknown payment method should not parse")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Expense{
		{Category: CategoryFood, Amount: Money{Cents: 1000}},
		{Category: CategoryShopping, Amount: Money{Cents: 5000}},
		{Category: CategoryFood, Amount: Money{Cents: 500}},
	})
	if s.Total.Cents != 6500 || s.Count != 3 {
		t.Fatalf("total/count = %d/%d", s.Total.Cents, s.Count)
	}
	if len(s.ByCategory) != 2 || s.ByCategory[0].Name != "shopping" || s.ByCategory[1].Amount.Cents != 1500 {
		t.Errorf("ByCategory = %+v", s.ByCategory)
	}

	empty := Summarize(nil)
	if empty.Total.Cents != 0 || empty.Count != 0 || len(empty.ByCategory) != 0 {
		t.Errorf("empty summary = %+v", empty)
	}
}

func TestSettings_Normalize(t *testing.T) {
	got := Settings{Theme: "neon", Currency: "JPY", Language: "de"}.Normalize()
	if got != DefaultSettings() {
		t.Errorf("Normalize = %+v", got)
	}
	keep := Settings{Theme: ThemeDark, Currency: CurrencyEUR, Language: LanguageEnglish}
	if keep.Normalize() != keep {
		t.Errorf("Normalize changed valid settings: %+v", keep.Normalize())
	}
}
