package store

import "context"

const tryAdvisoryXactLock = `SELECT pg_try_advisory_xact_lock($1)`

// TryAdvisoryXactLock takes a transaction-scoped advisory lock without
// waiting. It only makes sense on a Queries bound to a transaction; the lock
// is released when that transaction ends.
func (q *Queries) TryAdvisoryXactLock(ctx context.Context, key int64) (bool, error) {
	var ok bool
	err := q.db.QueryRow(ctx, tryAdvisoryXactLock, key).Scan(&ok)
	return ok, err
}
