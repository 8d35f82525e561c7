package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/core"
	"github.com/lzjever/prodcat/internal/observability"
)

// DefaultActor is recorded when the caller does not name one.
const DefaultActor = "admin"

// Outcome reports what happened to one Record call. It exists for logging and
// tests; callers never branch on it.
type Outcome struct {
	Entry Entry
	// Rejected is set when the event was refused before reaching any sink.
	Rejected error
	// Failures holds one *SinkError per sink that did not persist the entry.
	Failures []*SinkError
}

// OK reports whether every sink persisted the entry.
func (o Outcome) OK() bool {
	return o.Rejected == nil && len(o.Failures) == 0
}

// Err joins the rejection and all sink failures, or returns nil.
func (o Outcome) Err() error {
	if o.OK() {
		return nil
	}
	errs := make([]error, 0, len(o.Failures)+1)
	if o.Rejected != nil {
		errs = append(errs, o.Rejected)
	}
	for _, f := range o.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Failed reports whether the named sink failed.
func (o Outcome) Failed(sink string) bool {
	for _, f := range o.Failures {
		if f.Sink == sink {
			return true
		}
	}
	return false
}

type Option func(*Recorder)

// WithDefaultActor overrides the actor used when performedBy is empty.
func WithDefaultActor(actor string) Option {
	return func(r *Recorder) {
		if actor != "" {
			r.defaultActor = actor
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// Auditor is the recording side of a Recorder, for callers that only need to
// record events.
type Auditor interface {
	Record(ctx context.Context, action core.Action, entity core.Entity, entityID any, details any, performedBy string) Outcome
}

// Recorder writes audit entries to its sinks in order: database, then file.
type Recorder struct {
	sinks        []Sink
	log          *zap.Logger
	defaultActor string
	now          func() time.Time
}

// NewRecorder builds a recorder over the given sinks. A nil sink is skipped.
func NewRecorder(db, file Sink, log *zap.Logger, opts ...Option) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Recorder{
		log:          log,
		defaultActor: DefaultActor,
		now:          time.Now,
	}
	for _, s := range []Sink{db, file} {
		if s != nil {
			r.sinks = append(r.sinks, s)
		}
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Record persists one audit event to every sink. It never returns an error and
// never panics: failures are logged and reported in the Outcome only. entityID
// may be nil, a string or an integer; details may be nil, a string, or any
// JSON-encodable value.
func (r *Recorder) Record(ctx context.Context, action core.Action, entity core.Entity, entityID any, details any, performedBy string) Outcome {
	if err := action.Validate(); err != nil {
		return r.reject(err, "action")
	}
	if err := entity.Validate(); err != nil {
		return r.reject(err, "entity")
	}

	if performedBy == "" {
		performedBy = r.defaultActor
	}
	text, err := NormalizeDetails(details)
	if err != nil {
		r.log.Warn("audit details not encodable as JSON", zap.Error(err))
	}

	entry := Entry{
		Action:      action,
		Entity:      entity,
		EntityID:    NormalizeEntityID(entityID),
		Details:     text,
		PerformedBy: performedBy,
		Timestamp:   r.now().UTC(),
	}

	// The audited operation has already happened; a caller that goes away
	// must not take its audit record with it.
	ctx = context.WithoutCancel(ctx)

	out := Outcome{Entry: entry}
	for _, s := range r.sinks {
		if err := r.write(ctx, s, entry); err != nil {
			serr := &SinkError{Sink: s.Name(), Err: err}
			out.Failures = append(out.Failures, serr)
			observability.AuditWritesTotal.WithLabelValues(s.Name(), "error").Inc()
			r.log.Error("audit write failed",
				zap.String("sink", s.Name()),
				zap.String("action", string(entry.Action)),
				zap.String("entity", string(entry.Entity)),
				zap.String("entity_id", entry.EntityIDText()),
				zap.String("performed_by", entry.PerformedBy),
				zap.Error(err),
			)
			continue
		}
		observability.AuditWritesTotal.WithLabelValues(s.Name(), "ok").Inc()
	}
	return out
}

func (r *Recorder) write(ctx context.Context, s Sink, e Entry) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			err = fmt.Errorf("panic: %v", rvr)
		}
	}()
	return s.Write(ctx, e)
}

func (r *Recorder) reject(err error, reason string) Outcome {
	observability.AuditRejectedTotal.WithLabelValues(reason).Inc()
	r.log.Error("audit event rejected", zap.Error(err))
	return Outcome{Rejected: err}
}
