package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lzjever/prodcat/internal/observability"
	"github.com/lzjever/prodcat/internal/store"
)

// Locker hands out cluster-wide job locks. release must be called when ok.
type Locker interface {
	TryLock(ctx context.Context, key int64) (release func(), ok bool, err error)
}

// PGLocker holds a Postgres advisory lock inside an open transaction for as
// long as the job runs, so only one worker replica runs a given job.
type PGLocker struct {
	pool *pgxpool.Pool
}

func NewPGLocker(pool *pgxpool.Pool) *PGLocker {
	return &PGLocker{pool: pool}
}

func (l *PGLocker) TryLock(ctx context.Context, key int64) (func(), bool, error) {
	start := time.Now()
	defer func() {
		observability.LockWaitSeconds.Observe(time.Since(start).Seconds())
	}()

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin lock tx: %w", err)
	}
	ok, err := store.New(l.pool).WithTx(tx).TryAdvisoryXactLock(ctx, key)
	if err != nil || !ok {
		tx.Rollback(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("try advisory lock: %w", err)
		}
		return nil, false, nil
	}
	release := func() {
		tx.Rollback(context.WithoutCancel(ctx))
	}
	return release, true, nil
}
