package worker

import (
	"context"
	"fmt"
	"log/slog"

	"expenses/internal/core"
	"expenses/internal/events"
)

// Mirror is an external copy of the expense list.
type Mirror interface {
	Append(ctx context.Context, e core.Expense) (ref string, err error)
	Update(ctx context.Context, e core.Expense) error
	Delete(ctx context.Context, id string) error
	IDs(ctx context.Context) ([]string, error)
}

// Source lists the expenses the mirror should contain.
type Source interface {
	LoadAll(ctx context.Context) ([]core.Expense, error)
}

// SyncWorker applies expense events to a Mirror.
type SyncWorker struct {
	mirror Mirror
	source Source
}

func NewSyncWorker(mirror Mirror, source Source) *SyncWorker {
	return &SyncWorker{mirror: mirror, source: source}
}

// HandleEvent is an events.Handler. Returned errors requeue the message.
func (w *SyncWorker) HandleEvent(ctx context.Context, ev *events.Event) error {
	slog.InfoContext(ctx, "Processing expense event",
		"type", ev.Type,
		"expense_id", ev.ExpenseID)

	if ev.Expense != nil {
		if err := ev.Expense.Validate(); err != nil {
			// requeueing would loop forever on the same payload
			slog.WarnContext(ctx, "Skipping expense the mirror would reject",
				"expense_id", ev.ExpenseID,
				"error", err)
			return nil
		}
	}

	switch ev.Type {
	case events.TypeCreated:
		ref, err := w.mirror.Append(ctx, *ev.Expense)
		if err != nil {
			return fmt.Errorf("append expense %s: %w", ev.ExpenseID, err)
		}
		slog.InfoContext(ctx, "Mirrored expense",
			"expense_id", ev.ExpenseID,
			"ref", ref,
			"amount_cents", ev.Expense.Amount.Cents)
	case events.TypeUpdated:
		if err := w.mirror.Update(ctx, *ev.Expense); err != nil {
			return fmt.Errorf("update expense %s: %w", ev.ExpenseID, err)
		}
	case events.TypeDeleted:
		if err := w.mirror.Delete(ctx, ev.ExpenseID); err != nil {
			return fmt.Errorf("delete expense %s: %w", ev.ExpenseID, err)
		}
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}

// StartupSyncCheck appends expenses the mirror is missing, recovering events
// lost while the worker was down. It does not remove extra rows.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	if w.source == nil {
		return nil
	}
	expenses, err := w.source.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load expenses for startup check: %w", err)
	}
	ids, err := w.mirror.IDs(ctx)
	if err != nil {
		return fmt.Errorf("list mirrored expenses: %w", err)
	}
	present := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		present[id] = struct{}{}
	}

	synced, failed := 0, 0
	for _, e := range expenses {
		if _, ok := present[e.ID]; ok {
			continue
		}
		if _, err := w.mirror.Append(ctx, e); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense during startup",
				"expense_id", e.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(expenses),
		"synced", synced,
		"errors", failed)
	return nil
}
