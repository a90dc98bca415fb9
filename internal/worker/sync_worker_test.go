package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenses/internal/core"
	"expenses/internal/events"
)

type fakeMirror struct {
	rows      []core.Expense
	appendErr error
	failIDs   map[string]bool
}

func (m *fakeMirror) Append(_ context.Context, e core.Expense) (string, error) {
	if m.appendErr != nil || m.failIDs[e.ID] {
		return "", errors.New("append failed")
	}
	m.rows = append(m.rows, e)
	return "row-" + e.ID, nil
}

func (m *fakeMirror) Update(ctx context.Context, e core.Expense) error {
	if err := m.Delete(ctx, e.ID); err != nil {
		return err
	}
	_, err := m.Append(ctx, e)
	return err
}

func (m *fakeMirror) Delete(_ context.Context, id string) error {
	for i, e := range m.rows {
		if e.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *fakeMirror) IDs(context.Context) ([]string, error) {
	ids := make([]string, len(m.rows))
	for i, e := range m.rows {
		ids[i] = e.ID
	}
	return ids, nil
}

type fakeSource []core.Expense

func (s fakeSource) LoadAll(context.Context) ([]core.Expense, error) { return s, nil }

func exp(id, desc string) core.Expense {
	return core.Expense{ID: id, Description: desc, Amount: core.Money{Cents: 100}, Date: core.NewDate(2024, 1, 2)}
}

func TestSyncWorker_HandleEvent(t *testing.T) {
	m := &fakeMirror{}
	w := NewSyncWorker(m, nil)
	ctx := context.Background()

	require.NoError(t, w.HandleEvent(ctx, events.Created(exp("a", "Lunch"))))
	require.NoError(t, w.HandleEvent(ctx, events.Created(exp("b", "Taxi"))))
	require.NoError(t, w.HandleEvent(ctx, events.Updated(exp("a", "Brunch"))))
	require.NoError(t, w.HandleEvent(ctx, events.Deleted("b")))

	require.Len(t, m.rows, 1)
	assert.Equal(t, "Brunch", m.rows[0].Description)
}

func TestSyncWorker_HandleEventErrors(t *testing.T) {
	w := NewSyncWorker(&fakeMirror{appendErr: errors.New("boom")}, nil)

	err := w.HandleEvent(context.Background(), events.Created(exp("a", "Lunch")))
	assert.ErrorContains(t, err, "append expense a")

	err = w.HandleEvent(context.Background(), &events.Event{Type: "archived", ExpenseID: "a"})
	assert.ErrorContains(t, err, "unknown event type")
}

func TestSyncWorker_SkipsInvalidExpense(t *testing.T) {
	m := &fakeMirror{appendErr: errors.New("should not be called")}
	w := NewSyncWorker(m, nil)

	err := w.HandleEvent(context.Background(), events.Created(exp("a", "")))
	assert.NoError(t, err)
	assert.Empty(t, m.rows)
}

func TestSyncWorker_StartupSyncCheck(t *testing.T) {
	m := &fakeMirror{rows: []core.Expense{exp("a", "Lunch")}, failIDs: map[string]bool{"c": true}}
	w := NewSyncWorker(m, fakeSource{exp("a", "Lunch"), exp("b", "Taxi"), exp("c", "Cinema")})

	require.NoError(t, w.StartupSyncCheck(context.Background()))

	ids, _ := m.IDs(context.Background())
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestSyncWorker_StartupSyncCheckWithoutSource(t *testing.T) {
	w := NewSyncWorker(&fakeMirror{}, nil)
	assert.NoError(t, w.StartupSyncCheck(context.Background()))
}
