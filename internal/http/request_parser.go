// Package http serves the expense tracker page and its htmx endpoints.
//
// This file holds the helpers that turn request data into domain values:
// filter and sort parameters, expense forms and bodies that may be either
// JSON or form encoded.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"expenses/internal/core"
	"expenses/internal/query"
)

// maxBodyBytes bounds every request body the handlers read.
const maxBodyBytes = 1 << 20

// ParseFilters reads the filter bar fields. Unparseable dates are ignored.
func ParseFilters(values url.Values) query.Filters {
	f := query.Filters{
		Category:      sanitizeInput(values.Get("category")),
		PaymentMethod: sanitizeInput(values.Get("paymentMethod")),
		Search:        sanitizeInput(values.Get("search")),
	}
	if d, err := core.ParseDate(values.Get("startDate")); err == nil {
		f.StartDate = d
	}
	if d, err := core.ParseDate(values.Get("endDate")); err == nil {
		f.EndDate = d
	}
	return f
}

// ParseSortParams reads the sort and order fields, falling back to newest first.
func ParseSortParams(values url.Values) query.SortConfig {
	return query.ParseSort(values.Get("sort"), values.Get("order"))
}

// EncodeListQuery is the inverse of ParseFilters and ParseSortParams, used
// for links that must keep the current view such as the CSV export.
func EncodeListQuery(f query.Filters, sc query.SortConfig) string {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" && value != query.All {
			v.Set(key, value)
		}
	}
	set("category", f.Category)
	set("paymentMethod", f.PaymentMethod)
	set("startDate", f.StartDate.String())
	set("endDate", f.EndDate.String())
	set("search", f.Search)
	if sc != query.DefaultSort {
		v.Set("sort", string(sc.Field))
		v.Set("order", string(sc.Order))
	}
	return v.Encode()
}

// ParseExpenseForm reads the add/edit form fields.
func ParseExpenseForm(form url.Values) core.FormData {
	return core.FormData{
		Description:   sanitizeInput(form.Get("description")),
		Amount:        sanitizeInput(form.Get("amount")),
		Category:      sanitizeInput(form.Get("category")),
		Date:          sanitizeInput(form.Get("date")),
		PaymentMethod: sanitizeInput(form.Get("paymentMethod")),
	}
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]interface{}
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser reads at most maxBodyBytes of the request body once.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	}
	return p
}

// Parse decodes the body as JSON when it starts with { and as a form otherwise.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}
	if trimmed[0] == '{' {
		p.jsonData = make(map[string]interface{})
		p.err = json.Unmarshal([]byte(trimmed), &p.jsonData)
		return p.err
	}
	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// Get returns a sanitised value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// RequireMethod returns a 405 response unless r uses one of methods.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireGET is a convenience function for read-only handlers.
func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}

// RequireDeleteOrPOST is a convenience function for DELETE/POST handlers.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
func ParseFormOrFail(w http.ResponseWriter, r *http.Request, message string) *HTMXResponseBuilder {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return BadRequestError(message)
	}
	return nil
}
