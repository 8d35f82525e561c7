package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lzjever/prodcat/internal/core"
	"github.com/lzjever/prodcat/internal/store"
)

// fakeInserter stands in for store.Queries in the database sink.
type fakeInserter struct {
	mu   sync.Mutex
	rows []store.InsertAuditLogParams
	err  error
}

func (f *fakeInserter) InsertAuditLog(_ context.Context, arg store.InsertAuditLogParams) (store.CatalogAuditLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return store.CatalogAuditLog{}, f.err
	}
	f.rows = append(f.rows, arg)
	return store.CatalogAuditLog{ID: int64(len(f.rows))}, nil
}

type panicSink struct{}

func (panicSink) Name() string                       { return "db" }
func (panicSink) Write(context.Context, Entry) error { panic("boom") }

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

func fixedClock() time.Time { return fixedTime }

type harness struct {
	db      *fakeInserter
	logPath string
	rec     *Recorder
	logs    *observer.ObservedLogs
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		db:      &fakeInserter{},
		logPath: filepath.Join(t.TempDir(), "server", "logs", "app.log"),
	}
	zcore, logs := observer.New(zap.InfoLevel)
	h.logs = logs
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	h.rec = NewRecorder(NewDBSink(h.db), NewFileSink(h.logPath), zap.New(zcore), opts...)
	return h
}

func (h *harness) lines(t *testing.T) []string {
	t.Helper()
	b, err := os.ReadFile(h.logPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	lines := strings.SplitAfter(string(b), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func TestRecord_SoftDeleteScenario(t *testing.T) {
	h := newHarness(t)

	out := h.rec.Record(context.Background(), core.ActionDelete, core.EntityProduct, 42,
		map[string]any{"name": "Widget", "type": "SOFT_DELETE"}, "admin")
	require.True(t, out.OK(), out.Err())

	require.Len(t, h.db.rows, 1)
	row := h.db.rows[0]
	assert.Equal(t, "DELETE", row.Action)
	assert.Equal(t, "PRODUCT", row.Entity)
	assert.True(t, row.EntityID.Valid)
	assert.Equal(t, "42", row.EntityID.String)
	assert.Equal(t, `{"name":"Widget","type":"SOFT_DELETE"}`, row.Details)
	assert.Equal(t, "admin", row.PerformedBy)
	assert.True(t, row.Timestamp.Time.Equal(fixedTime))

	lines := h.lines(t)
	require.Len(t, lines, 1)
	assert.Equal(t,
		`[2026-03-14T09:26:53.589Z] [DELETE] [PRODUCT] [admin] ID:42 Details:{"name":"Widget","type":"SOFT_DELETE"}`+"\n",
		lines[0])
}

func TestRecord_EveryActionEntityPairWritesBothSinks(t *testing.T) {
	h := newHarness(t)
	n := 0
	for _, a := range core.Actions() {
		for _, e := range core.Entities() {
			out := h.rec.Record(context.Background(), a, e, "id-1", nil, "carol")
			require.True(t, out.OK(), "%s/%s: %v", a, e, out.Err())
			n++

			require.Len(t, h.db.rows, n)
			row := h.db.rows[n-1]
			lines := h.lines(t)
			require.Len(t, lines, n)
			line := lines[n-1]

			assert.Equal(t, string(a), row.Action)
			assert.Equal(t, string(e), row.Entity)
			assert.Equal(t, "carol", row.PerformedBy)
			assert.Equal(t, "id-1", row.EntityID.String)
			assert.Contains(t, line, "] ["+string(a)+"] ["+string(e)+"] [carol] ID:id-1 Details:\n")
		}
	}
}

func TestRecord_StructuredDetailsAreCanonicalJSON(t *testing.T) {
	h := newHarness(t)
	h.rec.Record(context.Background(), core.ActionUpdate, core.EntityProduct, 7,
		map[string]any{"b": "x", "a": 1}, "admin")

	require.Len(t, h.db.rows, 1)
	assert.Equal(t, `{"a":1,"b":"x"}`, h.db.rows[0].Details)
	assert.True(t, strings.HasSuffix(h.lines(t)[0], ` Details:{"a":1,"b":"x"}`+"\n"))
}

func TestRecord_NilDetailsBecomeEmpty(t *testing.T) {
	h := newHarness(t)
	h.rec.Record(context.Background(), core.ActionLogout, core.EntityUser, 3, nil, "dave")

	require.Len(t, h.db.rows, 1)
	assert.Equal(t, "", h.db.rows[0].Details)
	assert.True(t, strings.HasSuffix(h.lines(t)[0], " ID:3 Details:\n"))
}

func TestRecord_StringDetailsPassThrough(t *testing.T) {
	h := newHarness(t)
	h.rec.Record(context.Background(), core.ActionLogin, core.EntityUser, 3, "plain text", "dave")
	assert.Equal(t, "plain text", h.db.rows[0].Details)
	assert.True(t, strings.HasSuffix(h.lines(t)[0], " Details:plain text\n"))
}

func TestRecord_AbsentEntityID(t *testing.T) {
	h := newHarness(t)
	h.rec.Record(context.Background(), core.ActionUpdate, core.EntityProduct, nil,
		map[string]any{"type": "REORDER", "count": 3}, "erin")

	require.Len(t, h.db.rows, 1)
	assert.False(t, h.db.rows[0].EntityID.Valid)
	assert.Contains(t, h.lines(t)[0], ` ID: Details:{"count":3,"type":"REORDER"}`)
}

func TestRecord_DefaultActor(t *testing.T) {
	h := newHarness(t)
	h.rec.Record(context.Background(), core.ActionCreate, core.EntityProduct, 1, nil, "")
	assert.Equal(t, DefaultActor, h.db.rows[0].PerformedBy)
	assert.Contains(t, h.lines(t)[0], "[admin]")

	h2 := newHarness(t, WithDefaultActor("system"))
	h2.rec.Record(context.Background(), core.ActionCreate, core.EntityProduct, 1, nil, "")
	assert.Equal(t, "system", h2.db.rows[0].PerformedBy)
}

func TestRecord_DatabaseFailureStillWritesFile(t *testing.T) {
	h := newHarness(t)
	h.db.err = errors.New("violates check constraint")

	out := h.rec.Record(context.Background(), core.ActionCreate, core.EntityUser, 9,
		map[string]any{"username": "frank"}, "admin")

	assert.False(t, out.OK())
	assert.True(t, out.Failed("db"))
	assert.False(t, out.Failed("file"))
	require.Len(t, h.lines(t), 1)
	assert.Contains(t, h.lines(t)[0], `[CREATE] [USER] [admin] ID:9 Details:{"username":"frank"}`)

	logged := h.logs.FilterMessage("audit write failed").All()
	require.Len(t, logged, 1)
	assert.Equal(t, "db", logged[0].ContextMap()["sink"])
}

func TestRecord_FileFailureStillWritesDatabase(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the log directory should be makes the append fail
	// regardless of the user the tests run as.
	blocker := filepath.Join(dir, "server")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	db := &fakeInserter{}
	zcore, logs := observer.New(zap.InfoLevel)
	rec := NewRecorder(NewDBSink(db), NewFileSink(filepath.Join(blocker, "logs", "app.log")),
		zap.New(zcore), WithClock(fixedClock))

	out := rec.Record(context.Background(), core.ActionUpload, core.EntityDocument, 5,
		map[string]any{"name": "Brochure", "productId": 2}, "gina")

	assert.True(t, out.Failed("file"))
	assert.False(t, out.Failed("db"))
	require.Len(t, db.rows, 1)
	assert.Equal(t, `{"name":"Brochure","productId":2}`, db.rows[0].Details)
	assert.Equal(t, 1, logs.FilterMessage("audit write failed").Len())

	var serr *SinkError
	require.ErrorAs(t, out.Err(), &serr)
	assert.Equal(t, "file", serr.Sink)
}

func TestRecord_BothSinksFailing(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	rec := NewRecorder(NewDBSink(&fakeInserter{err: errors.New("db down")}),
		NewFileSink(filepath.Join(blocker, "app.log")), zap.NewNop())

	out := rec.Record(context.Background(), core.ActionDelete, core.EntityDocument, 1, nil, "")
	assert.Len(t, out.Failures, 2)
	assert.Error(t, out.Err())
}

func TestRecord_PanickingSinkIsContained(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")
	rec := NewRecorder(panicSink{}, NewFileSink(logPath), zap.NewNop(), WithClock(fixedClock))

	var out Outcome
	require.NotPanics(t, func() {
		out = rec.Record(context.Background(), core.ActionCreate, core.EntityProduct, 1, nil, "")
	})
	assert.True(t, out.Failed("db"))

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, "[2026-03-14T09:26:53.589Z] [CREATE] [PRODUCT] [admin] ID:1 Details:\n", string(b))
}

func TestRecord_InvalidEnumWritesNothing(t *testing.T) {
	h := newHarness(t)

	out := h.rec.Record(context.Background(), core.Action("ARCHIVE"), core.EntityProduct, 1, nil, "admin")
	require.ErrorIs(t, out.Rejected, core.ErrInvalidEnumValue)

	out = h.rec.Record(context.Background(), core.ActionCreate, core.Entity("ASSET"), 1, nil, "admin")
	require.ErrorIs(t, out.Rejected, core.ErrInvalidEnumValue)

	assert.Empty(t, h.db.rows)
	assert.Empty(t, h.lines(t))
	assert.Equal(t, 2, h.logs.FilterMessage("audit event rejected").Len())
}

func TestRecord_NoDeduplication(t *testing.T) {
	calls := 0
	clock := func() time.Time {
		calls++
		return fixedTime.Add(time.Duration(calls) * time.Millisecond)
	}
	h := newHarness(t, WithClock(clock))

	for i := 0; i < 2; i++ {
		h.rec.Record(context.Background(), core.ActionDownload, core.EntityDocument, 11,
			map[string]any{"name": "Spec sheet", "count": 4}, "Guest")
	}

	require.Len(t, h.db.rows, 2)
	a, b := h.db.rows[0], h.db.rows[1]
	assert.False(t, a.Timestamp.Time.Equal(b.Timestamp.Time))
	assert.Equal(t, a.Action, b.Action)
	assert.Equal(t, a.Details, b.Details)

	lines := h.lines(t)
	require.Len(t, lines, 2)
	assert.NotEqual(t, lines[0], lines[1])
	assert.Equal(t, lines[0][strings.Index(lines[0], "]"):], lines[1][strings.Index(lines[1], "]"):])
}

func TestRecord_CanceledContextStillRecords(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := h.rec.Record(ctx, core.ActionLogin, core.EntityUser, 1, nil, "hank")
	assert.True(t, out.OK())
	assert.Len(t, h.db.rows, 1)
}

func TestRecord_UnencodableDetailsFallBack(t *testing.T) {
	h := newHarness(t)
	out := h.rec.Record(context.Background(), core.ActionUpdate, core.EntityProduct, 1,
		map[string]any{"ch": make(chan int)}, "admin")

	assert.True(t, out.OK())
	require.Len(t, h.db.rows, 1)
	assert.NotEmpty(t, h.db.rows[0].Details)
	assert.Equal(t, 1, h.logs.FilterMessage("audit details not encodable as JSON").Len())
}

func TestRecord_ConcurrentWritersProduceWholeLines(t *testing.T) {
	h := newHarness(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.rec.Record(context.Background(), core.ActionDownload, core.EntityDocument, i, nil, "Guest")
		}(i)
	}
	wg.Wait()

	lines := h.lines(t)
	require.Len(t, lines, 20)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, "[2026-03-14T09:26:53.589Z] [DOWNLOAD] [DOCUMENT] [Guest] ID:"), l)
	}
	assert.Len(t, h.db.rows, 20)
}
