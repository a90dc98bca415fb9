package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"expenses/internal/core"
	"expenses/internal/export"
	"expenses/internal/log"
	"expenses/internal/query"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleReady checks templates and, when configured, the storage backend.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"templates": "ok", "storage": "ok"}
	ready := true

	if s.templates == nil {
		checks["templates"] = "not loaded"
		ready = false
	}
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			checks["storage"] = err.Error()
			ready = false
		}
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	writeJSON(w, r, code, map[string]any{
		"status":    status,
		"timestamp": s.now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleIndex renders the whole page for the filters in the query string.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	data := s.basePage(r.Context())
	data.List = s.listView(r, &data)
	s.render(w, r, http.StatusOK, "index.html", data)
}

// handleListPartial renders statistics, charts and the expense list.
func (s *Server) handleListPartial(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	data := s.basePage(r.Context())
	data.List = s.listView(r, &data)
	s.render(w, r, http.StatusOK, "expense_list", data)
}

// handleFormPartial renders the add form, or the edit form when id is given.
func (s *Server) handleFormPartial(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	data := s.basePage(r.Context())

	id := sanitizeInput(r.URL.Query().Get("id"))
	if id != "" {
		e, err := s.expenses.Get(r.Context(), id)
		if err != nil {
			log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to load expense for editing",
				log.FieldError, err, log.FieldExpenseID, id)
			InternalServerError(data.T.Get("loadFailed")).Write(w)
			return
		}
		if e == nil {
			NotFoundError(data.T.Get("expenseNotFound")).Write(w)
			return
		}
		data.Form = formView{EditID: e.ID, Values: core.FormFromExpense(*e)}
	}
	s.render(w, r, http.StatusOK, "expense_form", data)
}

func (s *Server) listView(r *http.Request, data *pageData) listView {
	q := r.URL.Query()
	f := ParseFilters(q)
	sc := ParseSortParams(q)
	data.Filters = newFilterView(f)

	res, err := s.loadList(r.Context(), f, sc)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to load expenses",
			log.FieldError, err, log.FieldOperation, log.OpList)
		v := buildListView(listResult{Stats: query.Calculate(nil)}, f, sc, data.T, data.Settings)
		v.Error = data.T.Get("loadFailed")
		return v
	}
	return buildListView(res, f, sc, data.T, data.Settings)
}

// handleExportCSV downloads the filtered and sorted list as CSV.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	q := r.URL.Query()
	f, sc := ParseFilters(q), ParseSortParams(q)

	res, err := s.loadList(ctx, f, sc)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Failed to load expenses for export",
			log.FieldError, err, log.FieldOperation, log.OpExport)
		http.Error(w, "Failed to load expenses", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, res.Items); err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.FromContext(ctx).ErrorContext(ctx, "Failed to write CSV", log.FieldError, err, log.FieldOperation, log.OpExport)
		http.Error(w, "Failed to export expenses", http.StatusInternalServerError)
		return
	}

	name := export.FileName(s.now())
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)

	log.FromContext(ctx).InfoContext(ctx, "Expenses exported",
		log.FieldCount, len(res.Items),
		log.FieldFile, name,
		log.FieldOperation, log.OpExport)
}

// handleSaveSettings stores the fields present in the form and reloads the
// page so every text and amount is rendered again.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	current := s.basePage(ctx)
	if resp := ParseFormOrFail(w, r, current.T.Get("invalidRequest")); resp != nil {
		resp.Write(w)
		return
	}

	next := current.Settings
	if v := sanitizeInput(r.Form.Get("currency")); v != "" {
		next.Currency = v
	}
	if v := sanitizeInput(r.Form.Get("language")); v != "" {
		next.Language = core.Language(v)
	}
	if v := sanitizeInput(r.Form.Get("theme")); v != "" {
		next.Theme = core.Theme(v)
	}

	saved, err := s.expenses.SaveSettings(ctx, next)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Failed to save settings", log.FieldError, err, log.FieldOperation, log.OpUpdate)
		InternalServerError(current.T.Get("saveFailed")).Write(w)
		return
	}
	log.FromContext(ctx).InfoContext(ctx, "Settings saved",
		"currency", saved.Currency,
		"language", saved.Language,
		"theme", saved.Theme)

	NewHTMXResponse().Refresh().Write(w)
}
