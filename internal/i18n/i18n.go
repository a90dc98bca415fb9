// Package i18n holds the English and Turkish text of the web page.
package i18n

import (
	"expenses/internal/core"
)

// Table maps a text key to its translation in one language.
type Table map[string]string

// For returns the table of lang, English when lang is unknown.
func For(lang core.Language) Table {
	if t, ok := tables[lang]; ok {
		return t
	}
	return en
}

// Get returns the translation of key, falling back to English and then to
// the key itself so a missing entry is visible on the page.
func (t Table) Get(key string) string {
	if v, ok := t[key]; ok {
		return v
	}
	if v, ok := en[key]; ok {
		return v
	}
	return key
}

// Category translates a category, leaving unknown values as they are.
func (t Table) Category(c core.Category) string {
	if !c.IsValid() {
		return string(c)
	}
	return t.Get(string(c))
}

// PaymentMethod translates a payment method. The empty method renders empty.
func (t Table) PaymentMethod(p core.PaymentMethod) string {
	key, ok := paymentKeys[p]
	if !ok {
		return string(p)
	}
	return t.Get(key)
}

// Message translates a validation message produced by core. Messages
// without a translation are returned unchanged.
func (t Table) Message(msg string) string {
	key, ok := messageKeys[msg]
	if !ok {
		return msg
	}
	return t.Get(key)
}

var paymentKeys = map[core.PaymentMethod]string{
	core.PaymentCash:          "cash",
	core.PaymentCreditCard:    "creditCard",
	core.PaymentDebitCard:     "debitCard",
	core.PaymentBankTransfer:  "bankTransfer",
	core.PaymentDigitalWallet: "digitalWallet",
}

var messageKeys = map[string]string{
	core.MsgDescriptionRequired:                       "errDescriptionRequired",
	"Description must be at least 3 characters":       "errDescriptionShort",
	"Description must be less than 100 characters":    "errDescriptionLong",
	"Amount is required":                              "errAmountRequired",
	"Amount must be a valid number":                   "errAmountNumber",
	"Amount must be greater than 0":                   "errAmountPositive",
	"Amount must be less than 1,000,000":              "errAmountTooLarge",
	core.MsgAmountPositive:                            "errAmountPositive",
	"Category is required":                            "errCategoryRequired",
	"Category is invalid":                             "errCategoryInvalid",
	"Date is required":                                "errDateRequired",
	core.MsgInvalidDate:                               "errDateInvalid",
	"Date cannot be in the future":                    "errDateFuture",
	"Payment method is required":                      "errPaymentRequired",
	"Payment method is invalid":                       "errPaymentInvalid",
}

var tables = map[core.Language]Table{
	core.LanguageEnglish: en,
	core.LanguageTurkish: tr,
}
