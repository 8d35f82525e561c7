// Package audit records who did what to which catalog row. Every event is
// written to two independent sinks, the audit_logs table and an append-only
// text file, and neither sink can fail the operation being audited.
//
// Audit history is best-effort: a sink that is down simply misses the event,
// and the two sinks are never reconciled. Consumers must not treat either one
// as a complete record.
package audit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/lzjever/prodcat/internal/core"
)

// TimestampLayout is the ISO-8601 form used in the file sink (UTC, milliseconds).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Entry is a normalized, immutable audit event as handed to each sink.
type Entry struct {
	Action      core.Action
	Entity      core.Entity
	EntityID    *string
	Details     string
	PerformedBy string
	Timestamp   time.Time
}

// EntityIDText returns the entity id, or "" when the event has none.
func (e Entry) EntityIDText() string {
	if e.EntityID == nil {
		return ""
	}
	return *e.EntityID
}

// FormatLine renders e as one line of the audit file, including the trailing newline.
func FormatLine(e Entry) string {
	return fmt.Sprintf("[%s] [%s] [%s] [%s] ID:%s Details:%s\n",
		e.Timestamp.UTC().Format(TimestampLayout),
		e.Action,
		e.Entity,
		e.PerformedBy,
		e.EntityIDText(),
		e.Details,
	)
}

// NormalizeDetails converts a details payload to its stored text form.
// nil becomes "", strings pass through unchanged, and anything else is encoded
// as canonical JSON. Values JSON cannot encode fall back to fmt formatting and
// the encoding error is returned alongside.
func NormalizeDetails(details any) (string, error) {
	switch v := details.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case *string:
		if v == nil {
			return "", nil
		}
		return *v, nil
	case []byte:
		if json.Valid(v) {
			b, _ := core.MarshalCanonical(json.RawMessage(v))
			return string(b), nil
		}
		return string(v), nil
	case json.RawMessage:
		if len(v) == 0 {
			return "", nil
		}
		b, _ := core.MarshalCanonical(v)
		return string(b), nil
	}

	b, err := core.MarshalCanonical(details)
	if err != nil {
		if s, ok := details.(fmt.Stringer); ok {
			return s.String(), nil
		}
		return fmt.Sprint(details), fmt.Errorf("encode details: %w", err)
	}
	if string(b) == "null" {
		return "", nil
	}
	return string(b), nil
}

// NormalizeEntityID coerces an entity id to text. nil means the event is not
// tied to a single row.
func NormalizeEntityID(id any) *string {
	var s string
	switch v := id.(type) {
	case nil:
		return nil
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	case int:
		s = strconv.Itoa(v)
	case int32:
		s = strconv.FormatInt(int64(v), 10)
	case int64:
		s = strconv.FormatInt(v, 10)
	case *int64:
		if v == nil {
			return nil
		}
		s = strconv.FormatInt(*v, 10)
	case uint:
		s = strconv.FormatUint(uint64(v), 10)
	case uint32:
		s = strconv.FormatUint(uint64(v), 10)
	case uint64:
		s = strconv.FormatUint(v, 10)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	return &s
}
