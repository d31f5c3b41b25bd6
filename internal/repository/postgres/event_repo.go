package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/xela07ax/truverse-dashboard/internal/audit"
)

// EventRepo — хранилище журнала событий доверия (audit.Storage)
type EventRepo struct {
	db DB
}

func NewEventRepo(db DB) *EventRepo {
	return &EventRepo{db: db}
}

func (r *EventRepo) WriteBatch(ctx context.Context, events []audit.TrustEventRecord) error {
	if len(events) == 0 {
		return nil
	}

	// Количество колонок в таблице trust_events
	const numFields = 7
	var placeholders strings.Builder
	vals := make([]any, 0, len(events)*numFields)

	// Динамически строим запрос для пакетной вставки
	for i, e := range events {
		p := i * numFields
		if i > 0 {
			placeholders.WriteByte(',')
		}
		fmt.Fprintf(&placeholders, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			p+1, p+2, p+3, p+4, p+5, p+6, p+7)

		vals = append(vals,
			e.ID, e.TraceID, string(e.Type), e.Label, e.Confidence, e.Source, e.Timestamp,
		)
	}

	query := "INSERT INTO trust_events (id, trace_id, type, label, confidence, source, created_at) VALUES " +
		placeholders.String()

	if _, err := r.db.Exec(ctx, query, vals...); err != nil {
		return fmt.Errorf("postgres: failed to write %d trust events: %w", len(events), err)
	}
	return nil
}
