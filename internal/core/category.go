package core

import "strings"

// Category is one of the fixed expense categories.
type Category string

const (
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryUtilities      Category = "utilities"
	CategoryShopping       Category = "shopping"
	CategoryHealthcare     Category = "healthcare"
	CategoryEducation      Category = "education"
	CategoryOther          Category = "other"
)

// CategoryInfo describes a category for display.
type CategoryInfo struct {
	Value Category
	Label string
	Color string
}

// Categories lists every category in display order.
var Categories = []CategoryInfo{
	{CategoryFood, "Food & Dining", "#f97316"},
	{CategoryTransportation, "Transportation", "#3b82f6"},
	{CategoryEntertainment, "Entertainment", "#a855f7"},
	{CategoryUtilities, "Utilities", "#eab308"},
	{CategoryShopping, "Shopping", "#ec4899"},
	{CategoryHealthcare, "Healthcare", "#ef4444"},
	{CategoryEducation, "Education", "#22c55e"},
	{CategoryOther, "Other", "#6b7280"},
}

func (c Category) IsValid() bool {
	for _, info := range Categories {
		if info.Value == c {
			return true
		}
	}
	return false
}

// Label returns the English display label, or the raw value for unknown categories.
func (c Category) Label() string {
	for _, info := range Categories {
		if info.Value == c {
			return info.Label
		}
	}
	return string(c)
}

// Color returns the chart colour for the category.
func (c Category) Color() string {
	for _, info := range Categories {
		if info.Value == c {
			return info.Color
		}
	}
	return "#6b7280"
}

// NormalizeCategory maps free text onto the enumeration. Values are matched
// case-insensitively against both value and label; anything else is "other".
func NormalizeCategory(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, info := range Categories {
		if s == string(info.Value) || s == strings.ToLower(info.Label) {
			return info.Value
		}
	}
	return CategoryOther
}

// PaymentMethod is how an expense was paid.
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCreditCard    PaymentMethod = "credit-card"
	PaymentDebitCard     PaymentMethod = "debit-card"
	PaymentBankTransfer  PaymentMethod = "bank-transfer"
	PaymentDigitalWallet PaymentMethod = "digital-wallet"
)

// PaymentMethodInfo describes a payment method for display.
type PaymentMethodInfo struct {
	Value PaymentMethod
	Label string
}

// PaymentMethods lists every payment method in display order.
var PaymentMethods = []PaymentMethodInfo{
	{PaymentCash, "Cash"},
	{PaymentCreditCard, "Credit Card"},
	{PaymentDebitCard, "Debit Card"},
	{PaymentBankTransfer, "Bank Transfer"},
	{PaymentDigitalWallet, "Digital Wallet"},
}

func (p PaymentMethod) IsValid() bool {
	for _, info := range PaymentMethods {
		if info.Value == p {
			return true
		}
	}
	return false
}

func (p PaymentMethod) Label() string {
	for _, info := range PaymentMethods {
		if info.Value == p {
			return info.Label
		}
	}
	return string(p)
}

// ParsePaymentMethod accepts the value or label in any case, with spaces or
// underscores in place of dashes. Unknown input yields "" and false.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	for _, info := range PaymentMethods {
		if s == string(info.Value) {
			return info.Value, true
		}
	}
	return "", false
}
