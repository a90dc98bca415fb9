package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenses/internal/ai"
	"expenses/internal/core"
	"expenses/internal/export"
	"expenses/internal/services"
	"expenses/internal/storage"
)

// setupEnv points the CLI at a JSON file in a temporary directory with no
// model configured.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("EXPENSES_CONFIG", "")
	t.Setenv("DATA_BACKEND", "json")
	t.Setenv("EXPENSES_DATA_PATH", filepath.Join(dir, "expenses.json"))
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("EXPENSES_CURRENCY", "USD")
	t.Setenv("AMQP_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp(&out)
	cmd := newRootCommand(a)
	cmd.SetArgs(append([]string{"--plain"}, args...))
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.NoError(t, a.close())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "expenses %v", args)
	return out
}

func listJSON(t *testing.T, args ...string) []core.Expense {
	t.Helper()
	out := mustRun(t, append([]string{"list", "--json"}, args...)...)
	var list []core.Expense
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	return list
}

func TestAddListGet(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "add", "-d", "Lunch", "-a", "12.50", "-c", "food", "--date", "2024-03-01", "-p", "credit-card", "-t", "work")
	assert.Contains(t, out, "Added ")
	assert.Contains(t, out, "Lunch")
	mustRun(t, "add", "-d", "Bus ticket", "-a", "2.75", "-c", "transportation", "--date", "2024-03-02")

	list := listJSON(t)
	require.Len(t, list, 2)
	assert.Equal(t, "Bus ticket", list[0].Description, "newest first")
	assert.Equal(t, "Lunch", list[1].Description)
	assert.Equal(t, int64(1250), list[1].Amount.Cents)
	assert.Equal(t, core.PaymentMethod("credit-card"), list[1].PaymentMethod)
	assert.Equal(t, []string{"work"}, list[1].Tags)

	filtered := listJSON(t, "-c", "food")
	require.Len(t, filtered, 1)
	assert.Equal(t, "Lunch", filtered[0].Description)

	byAmount := listJSON(t, "--sort", "amount", "--order", "asc")
	require.Len(t, byAmount, 2)
	assert.Equal(t, "Bus ticket", byAmount[0].Description)

	out = mustRun(t, "get", list[1].ID)
	var got core.Expense
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, list[1].ID, got.ID)

	table := mustRun(t, "list")
	assert.Contains(t, table, "| Date | Description |")
	assert.Contains(t, table, "Bus ticket")
	assert.Contains(t, table, "2 expenses")
}

func TestAddRejectsInvalidInput(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "add", "-d", "Lunch", "-a", "abc")
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	assert.ErrorContains(t, err, core.MsgAmountPositive)

	_, err = run(t, "add", "-d", "Lunch", "--amount=-5")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = run(t, "add", "-d", "", "-a", "0")
	assert.EqualError(t, err, "invalid expense input: Description is required, Amount must be a positive number")

	_, err = run(t, "add", "-d", "  ", "-a", "3")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = run(t, "add", "-d", "Lunch", "-a", "3", "--date", "03/01/2024")
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = run(t, "add", "-a", "5")
	assert.Error(t, err, "description is required")

	assert.Empty(t, listJSON(t))
}

func TestListEmpty(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "list")
	assert.Equal(t, "No expenses found.\n", out)
	assert.Empty(t, listJSON(t))
}

func TestUpdateAndDelete(t *testing.T) {
	setupEnv(t)
	mustRun(t, "add", "-d", "Coffee", "-a", "3", "-c", "food", "--date", "2024-03-01")
	id := listJSON(t)[0].ID

	out := mustRun(t, "update", id, "-a", "4.20", "-c", "shopping")
	assert.Equal(t, "Updated "+id+"\n", out)

	got := listJSON(t)[0]
	assert.Equal(t, "Coffee", got.Description)
	assert.Equal(t, int64(420), got.Amount.Cents)
	assert.Equal(t, core.Category("shopping"), got.Category)

	_, err := run(t, "update", id)
	assert.ErrorContains(t, err, "nothing to update")

	_, err = run(t, "update", "missing", "-a", "1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	out = mustRun(t, "rm", id)
	assert.Equal(t, "Deleted "+id+"\n", out)
	assert.Empty(t, listJSON(t))

	_, err = run(t, "delete", id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = run(t, "get", id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := setupEnv(t)

	_, err := run(t, "export")
	assert.ErrorIs(t, err, export.ErrNothingToExport)

	mustRun(t, "add", "-d", "Cinema, evening", "-a", "15", "-c", "entertainment", "--date", "2024-04-05", "-p", "cash")
	mustRun(t, "add", "-d", "Power bill", "-a", "80.10", "-c", "utilities", "--date", "2024-04-01")

	csvOut := mustRun(t, "export")
	assert.Contains(t, csvOut, "Date,Description,Amount,Category,Payment Method")
	assert.Contains(t, csvOut, `"Cinema, evening"`)

	file := filepath.Join(dir, "out.csv")
	out := mustRun(t, "export", "-o", file)
	assert.Equal(t, "Exported 2 expenses to "+file+"\n", out)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, csvOut, string(data))

	t.Setenv("EXPENSES_DATA_PATH", filepath.Join(dir, "other.json"))
	out = mustRun(t, "import", file)
	assert.Equal(t, "Imported 2 of 2 expenses\n", out)

	list := listJSON(t)
	require.Len(t, list, 2)
	assert.Equal(t, "Cinema, evening", list[0].Description)
	assert.Equal(t, int64(1500), list[0].Amount.Cents)
	require.NotNil(t, list[0].Metadata)
	assert.Equal(t, core.SourceImport, list[0].Metadata.Source)
}

func TestSummary(t *testing.T) {
	setupEnv(t)
	mustRun(t, "add", "-d", "Groceries", "-a", "30", "-c", "food")
	mustRun(t, "add", "-d", "Taxi", "-a", "10", "-c", "transportation")

	out := mustRun(t, "summary")
	assert.Contains(t, out, "# Expense summary")
	assert.Contains(t, out, "across 2 expenses")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "25.0%")
}

func TestParseRequiresAPIKey(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "parse", "lunch for 12 dollars")
	assert.ErrorIs(t, err, services.ErrMissingAPIKey)

	_, err = run(t, "analyze")
	assert.ErrorIs(t, err, services.ErrMissingAPIKey)
}

func TestInvalidConfiguration(t *testing.T) {
	setupEnv(t)
	t.Setenv("DATA_BACKEND", "mongo")

	_, err := run(t, "list")
	assert.ErrorContains(t, err, "invalid data backend")
}

func TestMarkdownHelpers(t *testing.T) {
	assert.Equal(t, `a \| b`, escapeCell("a | b"))

	md := analysisMarkdown(analysisFixture())
	assert.Contains(t, md, "## Insights\n\n- Food is the largest category\n")
	assert.NotContains(t, md, "## Recommendations")
}

func analysisFixture() ai.Analysis {
	return ai.Analysis{
		Summary:  "Spending is steady.",
		Insights: []string{"Food is the largest category"},
	}
}
