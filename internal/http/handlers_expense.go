package http

import (
	"errors"
	"net/http"
	"strings"

	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/services"
)

// handleCreateExpense validates the add form and stores the expense. An
// invalid form is rendered again with per-field messages and status 422.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	data := s.basePage(ctx)
	if resp := ParseFormOrFail(w, r, data.T.Get("invalidRequest")); resp != nil {
		resp.Write(w)
		return
	}

	form := ParseExpenseForm(r.Form)
	if errs := form.Validate(s.now()); errs.HasErrors() {
		data.Form = formView{Values: form, Errors: translateErrors(data.T, errs)}
		s.render(w, r, http.StatusUnprocessableEntity, "expense_form", data)
		return
	}

	exp, err := form.Expense()
	if err != nil {
		data.Form = formView{Values: form, Errors: map[string]string{"amount": data.T.Get("errAmountNumber")}}
		s.render(w, r, http.StatusUnprocessableEntity, "expense_form", data)
		return
	}
	exp.Metadata = &core.Metadata{Source: core.SourceWeb}

	saved, err := s.expenses.Create(ctx, exp)
	if err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentExpense).ErrorContext(ctx, "Failed to save expense",
			log.FieldError, err,
			log.FieldExpenseDesc, exp.Description,
			log.FieldAmountCents, exp.Amount.Cents,
			log.FieldCategory, exp.Category,
			log.FieldOperation, log.OpCreate)
		InternalServerError(data.T.Get("saveFailed")).Write(w)
		return
	}
	s.invalidateViews()

	s.renderFormResponse(w, r, data, NewHTMXResponse().
		TriggerExpenseCreated(saved.ID).
		TriggerFormReset().
		TriggerSuccessNotification(data.T.Get("expenseAdded")))
}

// handleUpdateExpense replaces every form field of the expense named by id.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	data := s.basePage(ctx)
	if resp := ParseFormOrFail(w, r, data.T.Get("invalidRequest")); resp != nil {
		resp.Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		BadRequestError(data.T.Get("invalidRequest")).Write(w)
		return
	}

	form := ParseExpenseForm(r.Form)
	if errs := form.Validate(s.now()); errs.HasErrors() {
		data.Form = formView{EditID: id, Values: form, Errors: translateErrors(data.T, errs)}
		s.render(w, r, http.StatusUnprocessableEntity, "expense_form", data)
		return
	}
	exp, err := form.Expense()
	if err != nil {
		data.Form = formView{EditID: id, Values: form, Errors: map[string]string{"amount": data.T.Get("errAmountNumber")}}
		s.render(w, r, http.StatusUnprocessableEntity, "expense_form", data)
		return
	}

	updated, err := s.expenses.Update(ctx, id, core.ExpensePatch{
		Description:   &exp.Description,
		Amount:        &exp.Amount,
		Category:      &exp.Category,
		Date:          &exp.Date,
		PaymentMethod: &exp.PaymentMethod,
	})
	if err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentExpense).ErrorContext(ctx, "Failed to update expense",
			log.FieldError, err,
			log.FieldExpenseID, id,
			log.FieldOperation, log.OpUpdate)
		InternalServerError(data.T.Get("saveFailed")).Write(w)
		return
	}
	if updated == nil {
		NotFoundError(data.T.Get("expenseNotFound")).Write(w)
		return
	}
	s.invalidateViews()

	s.renderFormResponse(w, r, data, NewHTMXResponse().
		TriggerExpenseUpdated(id).
		TriggerFormReset().
		TriggerSuccessNotification(data.T.Get("expenseUpdated")))
}

// handleDeleteExpense removes one expense. The id comes from the query
// string or the body.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	data := s.basePage(ctx)

	id := sanitizeInput(r.URL.Query().Get("id"))
	if id == "" {
		body := NewRequestBodyParser(r)
		if err := body.Parse(); err != nil {
			BadRequestError(data.T.Get("invalidRequest")).Write(w)
			return
		}
		id = body.Get("id")
	}
	if id == "" {
		BadRequestError(data.T.Get("invalidRequest")).Write(w)
		return
	}

	ok, err := s.expenses.Delete(ctx, id)
	if err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentExpense).ErrorContext(ctx, "Failed to delete expense",
			log.FieldError, err,
			log.FieldExpenseID, id,
			log.FieldOperation, log.OpDelete)
		InternalServerError(data.T.Get("saveFailed")).Write(w)
		return
	}
	if !ok {
		NotFoundError(data.T.Get("expenseNotFound")).Write(w)
		return
	}
	s.invalidateViews()

	NewHTMXResponse().
		TriggerExpenseDeleted(id).
		TriggerSuccessNotification(data.T.Get("expenseDeleted")).
		Write(w)
}

// handleParseExpense adds an expense described in free text through the
// configured model. Accepts a form or a JSON body with a text field.
func (s *Server) handleParseExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	data := s.basePage(ctx)

	if !s.expenses.CanParse() {
		ErrorResponse(http.StatusServiceUnavailable, data.T.Get("parseUnavailable")).Write(w)
		return
	}

	body := NewRequestBodyParser(r)
	if err := body.Parse(); err != nil {
		BadRequestError(data.T.Get("invalidRequest")).Write(w)
		return
	}
	text := body.Get("text")
	if text == "" {
		UnprocessableEntityError(data.T.Get("textRequired")).Write(w)
		return
	}

	exp, err := s.expenses.AddFromText(ctx, text)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, services.ErrParserUnavailable) {
			status = http.StatusServiceUnavailable
		}
		log.FromContext(ctx).WithComponent(log.ComponentAI).ErrorContext(ctx, "Failed to add expense from text",
			log.FieldError, err,
			log.FieldOperation, log.OpParse)
		ErrorResponse(status, data.T.Get("parseFailed")).Write(w)
		return
	}
	s.invalidateViews()

	summary := exp.Description + " · " + formatMoney(exp.Amount, data.Settings) + " · " + data.T.Category(exp.Category)
	NewHTMXResponse().
		TriggerExpenseCreated(exp.ID).
		TriggerSuccessNotification(data.T.Get("expenseAdded") + ": " + summary).
		BodyHTML("").
		Write(w)
}

// handleClearExpenses deletes every expense once the confirmation word of
// the current language is typed, sent as HX-Prompt or a confirm field.
func (s *Server) handleClearExpenses(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	ctx := r.Context()
	data := s.basePage(ctx)
	if resp := ParseFormOrFail(w, r, data.T.Get("invalidRequest")); resp != nil {
		resp.Write(w)
		return
	}

	confirm := sanitizeInput(r.Header.Get("HX-Prompt"))
	if confirm == "" {
		confirm = sanitizeInput(r.Form.Get("confirm"))
	}
	if !strings.EqualFold(confirm, data.T.Get("clearAllWord")) {
		UnprocessableEntityError(data.T.Get("clearNotConfirmed")).Write(w)
		return
	}

	if err := s.expenses.Clear(ctx); err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentExpense).ErrorContext(ctx, "Failed to clear expenses",
			log.FieldError, err,
			log.FieldOperation, log.OpDelete)
		InternalServerError(data.T.Get("saveFailed")).Write(w)
		return
	}
	s.invalidateViews()

	NewHTMXResponse().
		TriggerExpenseDeleted("").
		TriggerFormReset().
		TriggerSuccessNotification(data.T.Get("dataCleared")).
		Write(w)
}

// renderFormResponse answers a successful save with a blank form and the
// given triggers.
func (s *Server) renderFormResponse(w http.ResponseWriter, r *http.Request, data pageData, resp *HTMXResponseBuilder) {
	data.Form = s.blankForm()
	if s.templates == nil {
		resp.Write(w)
		return
	}
	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, "expense_form", data); err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentTemplate).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err, "template", "expense_form")
		resp.Write(w)
		return
	}
	resp.BodyHTML(buf.String()).Write(w)
}
