// Package export writes and reads the CSV download offered by the web page
// and the CLI.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"expenses/internal/core"
)

var ErrNothingToExport = errors.New("No expenses to export")

// Header is the first CSV line.
var Header = []string{"Date", "Description", "Amount", "Category", "Payment Method"}

// ContentType is sent with CSV downloads.
const ContentType = "text/csv;charset=utf-8"

// FileName returns the download name for an export made at t.
func FileName(t time.Time) string {
	return "expenses-" + t.Format(core.DateLayout) + ".csv"
}

// WriteCSV writes one row per expense. Lines are joined with "\n" and there is
// no trailing newline. Descriptions are always quoted with inner quotes doubled.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	if len(expenses) == 0 {
		return ErrNothingToExport
	}
	lines := make([]string, 0, len(expenses)+1)
	lines = append(lines, strings.Join(Header, ","))
	for _, e := range expenses {
		lines = append(lines, strings.Join([]string{
			e.Date.String(),
			quote(e.Description),
			e.Amount.String(),
			string(e.Category),
			string(e.PaymentMethod),
		}, ","))
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ReadCSV parses a file produced by WriteCSV. Every row gets a fresh ID and
// CreatedAt; unknown categories become "other". A CRLF inside a description
// reads back as LF.
func ReadCSV(r io.Reader) ([]core.Expense, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !strings.EqualFold(strings.Join(head, ","), strings.Join(Header, ",")) {
		return nil, fmt.Errorf("unexpected header %q", strings.Join(head, ","))
	}

	var out []core.Expense
	created := time.Now().UTC()
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		e.ID = uuid.NewString()
		e.CreatedAt = created
		out = append(out, e)
	}
	return out, nil
}

func parseRecord(rec []string) (core.Expense, error) {
	date, err := core.ParseDate(rec[0])
	if err != nil {
		return core.Expense{}, err
	}
	amount, err := core.ParseAmount(rec[2])
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount %q: %w", rec[2], err)
	}
	e := core.Expense{
		Date:        date,
		Description: rec[1],
		Amount:      amount,
		Category:    core.NormalizeCategory(rec[3]),
		Metadata:    &core.Metadata{Source: core.SourceImport},
	}
	if pm, ok := core.ParsePaymentMethod(rec[4]); ok {
		e.PaymentMethod = pm
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}
