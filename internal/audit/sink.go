package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lzjever/prodcat/internal/store"
)

// Sink is a durable destination for audit entries.
type Sink interface {
	Name() string
	Write(ctx context.Context, e Entry) error
}

// SinkError is the failure of a single sink for a single entry.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("audit sink %s: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// AuditLogInserter is the slice of store.Queries the database sink needs.
type AuditLogInserter interface {
	InsertAuditLog(ctx context.Context, arg store.InsertAuditLogParams) (store.CatalogAuditLog, error)
}

// DBSink appends entries to catalog.audit_logs.
type DBSink struct {
	q AuditLogInserter
}

func NewDBSink(q AuditLogInserter) *DBSink {
	return &DBSink{q: q}
}

func (s *DBSink) Name() string { return "db" }

func (s *DBSink) Write(ctx context.Context, e Entry) error {
	var entityID pgtype.Text
	if e.EntityID != nil {
		entityID = pgtype.Text{String: *e.EntityID, Valid: true}
	}
	_, err := s.q.InsertAuditLog(ctx, store.InsertAuditLogParams{
		Action:      string(e.Action),
		Entity:      string(e.Entity),
		EntityID:    entityID,
		Details:     e.Details,
		PerformedBy: e.PerformedBy,
		Timestamp:   pgtype.Timestamptz{Time: e.Timestamp, Valid: !e.Timestamp.IsZero()},
	})
	return err
}

// FileSink appends one formatted line per entry to a local file. The file is
// opened and closed on every write; concurrent writers rely on O_APPEND and a
// single write call per line.
type FileSink struct {
	path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Name() string { return "file" }

func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Write(_ context.Context, e Entry) (err error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close log file: %w", cerr)
		}
	}()
	if _, err := f.WriteString(FormatLine(e)); err != nil {
		return fmt.Errorf("append log line: %w", err)
	}
	return nil
}
