package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/core"
	"github.com/lzjever/prodcat/internal/store"
)

// DefaultWindow is how far back the audit viewer looks by default.
const DefaultWindow = 5 * 24 * time.Hour

type AuditLogLister interface {
	ListAuditLogsSince(ctx context.Context, since time.Time) ([]store.CatalogAuditLog, error)
}

// Reader serves the audit table to viewers. It sees only what the database
// sink managed to write.
type Reader struct {
	q   AuditLogLister
	log *zap.Logger
	now func() time.Time
}

func NewReader(q AuditLogLister, log *zap.Logger) *Reader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reader{q: q, log: log, now: time.Now}
}

// Since returns events newer than now-window, newest first.
func (r *Reader) Since(ctx context.Context, window time.Duration) ([]core.AuditEvent, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	rows, err := r.q.ListAuditLogsSince(ctx, r.now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	events := make([]core.AuditEvent, len(rows))
	for i, row := range rows {
		if err := CheckRow(row); err != nil {
			r.log.Warn("audit row has unknown tags", zap.Int64("id", row.ID), zap.Error(err))
		}
		events[i] = EventFromRow(row)
	}
	return events, nil
}

// CheckRow reports whether a stored row carries a known action and entity.
func CheckRow(row store.CatalogAuditLog) error {
	_, aerr := core.ParseAction(row.Action)
	_, eerr := core.ParseEntity(row.Entity)
	return errors.Join(aerr, eerr)
}

// EventFromRow converts a stored row. Unknown tags are passed through as-is;
// the table's CHECK constraints keep them out in practice.
func EventFromRow(row store.CatalogAuditLog) core.AuditEvent {
	ev := core.AuditEvent{
		ID:          row.ID,
		Action:      core.Action(row.Action),
		Entity:      core.Entity(row.Entity),
		Details:     row.Details,
		PerformedBy: row.PerformedBy,
		Timestamp:   row.Timestamp.Time,
	}
	if row.EntityID.Valid {
		id := row.EntityID.String
		ev.EntityID = &id
	}
	return ev
}
