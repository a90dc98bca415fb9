package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"expenses/internal/core"
	"expenses/internal/log"
)

// sanitizeInput removes control characters other than tab, newline and
// carriage return, then trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// formatMoney renders m in the display currency chosen in the settings.
func formatMoney(m core.Money, s core.Settings) string {
	return core.FormatCurrency(m, s.Currency)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode JSON response",
			log.FieldError, err,
			log.FieldPath, r.URL.Path)
	}
}
