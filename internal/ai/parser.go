package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"expenses/internal/core"
	"expenses/internal/log"
)

// Token budgets for the two prompts.
const (
	ParseMaxTokens   = 1024
	AnalyzeMaxTokens = 2048
)

const parsePrompt = `Parse the following expense description into structured data:

%q

Today is %s.

Extract:
1. Description (clear summary of what was purchased)
2. Amount (numeric value, in USD if not specified)
3. Category (%s)
4. Date (default to today if not specified)
5. Tags (relevant keywords)
6. Merchant and payment method, if mentioned

Respond in JSON format:
{
  "description": "...",
  "amount": 0.00,
  "category": "...",
  "date": "YYYY-MM-DD",
  "tags": ["..."],
  "merchant": "...",
  "paymentMethod": "...",
  "confidence": 0.0-1.0
}`

const analyzePrompt = `Analyze the following spending data and provide insights:

%s

Provide:
1. A brief summary of spending patterns
2. Key insights about the user's expenses
3. Practical recommendations for better budgeting

Respond in JSON format:
{
  "summary": "...",
  "insights": ["...", "..."],
  "recommendations": ["...", "..."]
}`

// ParseResult is the structured form of a free-text expense. Confidence is
// whatever the model reported and is not checked.
type ParseResult struct {
	Description   string
	Amount        core.Money
	Category      core.Category
	Date          core.Date
	Tags          []string
	Merchant      string
	PaymentMethod string
	Confidence    float64
}

// SpendingPoint is one expense as sent for analysis.
type SpendingPoint struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
	Date     core.Date  `json:"date"`
}

type Analysis struct {
	Summary         string   `json:"summary"`
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Parser builds prompts, calls the model once and decodes the JSON it returns.
// There is no retry.
type Parser struct {
	completer Completer
	now       func() time.Time
}

func NewParser(c Completer) *Parser {
	return &Parser{completer: c, now: time.Now}
}

type rawParse struct {
	Description   string     `json:"description"`
	Amount        core.Money `json:"amount"`
	Category      string     `json:"category"`
	Date          string     `json:"date"`
	Tags          []string   `json:"tags"`
	Merchant      string     `json:"merchant"`
	PaymentMethod string     `json:"paymentMethod"`
	Confidence    float64    `json:"confidence"`
}

// ParseExpense asks the model to structure text. The category is folded onto
// the fixed list; a missing or unreadable date becomes today.
func (p *Parser) ParseExpense(ctx context.Context, text string) (ParseResult, error) {
	today := core.DateOf(p.now())
	prompt := fmt.Sprintf(parsePrompt, text, today, categoryList())

	reply, err := p.complete(ctx, prompt, ParseMaxTokens)
	if err != nil {
		return ParseResult{}, err
	}

	var raw rawParse
	if err := decodeReply(reply, &raw); err != nil {
		return ParseResult{}, err
	}

	date := today
	if strings.TrimSpace(raw.Date) != "" {
		if d, err := core.ParseDate(raw.Date); err == nil {
			date = d
		} else {
			slog.WarnContext(ctx, "Model returned an unreadable date, using today", "date", raw.Date)
		}
	}

	return ParseResult{
		Description:   strings.TrimSpace(raw.Description),
		Amount:        raw.Amount,
		Category:      core.NormalizeCategory(raw.Category),
		Date:          date,
		Tags:          raw.Tags,
		Merchant:      strings.TrimSpace(raw.Merchant),
		PaymentMethod: strings.TrimSpace(raw.PaymentMethod),
		Confidence:    raw.Confidence,
	}, nil
}

// AnalyzeSpending sends the points as indented JSON and decodes the advice.
func (p *Parser) AnalyzeSpending(ctx context.Context, points []SpendingPoint) (Analysis, error) {
	if points == nil {
		points = []SpendingPoint{}
	}
	data, err := json.MarshalIndent(points, "", "  ")
	if err != nil {
		return Analysis{}, fmt.Errorf("encode spending data: %w", err)
	}

	reply, err := p.complete(ctx, fmt.Sprintf(analyzePrompt, data), AnalyzeMaxTokens)
	if err != nil {
		return Analysis{}, err
	}

	var out Analysis
	if err := decodeReply(reply, &out); err != nil {
		return Analysis{}, err
	}
	return out, nil
}

func (p *Parser) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	start := time.Now()
	reply, err := p.completer.Complete(ctx, prompt, maxTokens)
	if err != nil {
		slog.ErrorContext(ctx, "Model call failed", log.FieldModel, p.completer.Model(), log.FieldError, err)
		return "", fmt.Errorf("AI request: %w", err)
	}
	slog.DebugContext(ctx, "Model call completed",
		log.FieldModel, p.completer.Model(),
		log.FieldDuration, time.Since(start).Milliseconds(),
		"reply_len", len(reply))
	return reply, nil
}

// ExtractJSON returns the text from the first "{" through the last "}".
func ExtractJSON(reply string) (string, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return "", false
	}
	return reply[start : end+1], true
}

func decodeReply(reply string, v any) error {
	obj, ok := ExtractJSON(reply)
	if !ok {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return fmt.Errorf("%w: %v", ErrNoJSON, err)
	}
	return nil
}

func categoryList() string {
	names := make([]string, 0, len(core.Categories))
	for _, c := range core.Categories {
		names = append(names, string(c.Value))
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}
