package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const auditColumns = `id, action, entity, entity_id, details, performed_by, timestamp`

func scanAuditLog(row pgx.Row) (CatalogAuditLog, error) {
	var i CatalogAuditLog
	err := row.Scan(
		&i.ID,
		&i.Action,
		&i.Entity,
		&i.EntityID,
		&i.Details,
		&i.PerformedBy,
		&i.Timestamp,
	)
	return i, err
}

func collectAuditLogs(rows pgx.Rows, err error) ([]CatalogAuditLog, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CatalogAuditLog
	for rows.Next() {
		i, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertAuditLog = `INSERT INTO catalog.audit_logs (action, entity, entity_id, details, performed_by, timestamp)
VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
RETURNING ` + auditColumns

type InsertAuditLogParams struct {
	Action      string
	Entity      string
	EntityID    pgtype.Text
	Details     string
	PerformedBy string
	Timestamp   pgtype.Timestamptz
}

func (q *Queries) InsertAuditLog(ctx context.Context, arg InsertAuditLogParams) (CatalogAuditLog, error) {
	return scanAuditLog(q.db.QueryRow(ctx, insertAuditLog,
		arg.Action, arg.Entity, arg.EntityID, arg.Details, arg.PerformedBy, arg.Timestamp))
}

const listAuditLogsSince = `SELECT ` + auditColumns + ` FROM catalog.audit_logs
WHERE timestamp >= $1
ORDER BY timestamp DESC, id DESC`

func (q *Queries) ListAuditLogsSince(ctx context.Context, since time.Time) ([]CatalogAuditLog, error) {
	return collectAuditLogs(q.db.Query(ctx, listAuditLogsSince, since))
}

const listAllAuditLogs = `SELECT ` + auditColumns + ` FROM catalog.audit_logs ORDER BY id`

func (q *Queries) ListAllAuditLogs(ctx context.Context) ([]CatalogAuditLog, error) {
	return collectAuditLogs(q.db.Query(ctx, listAllAuditLogs))
}
