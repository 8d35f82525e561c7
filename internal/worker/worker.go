// Package worker runs maintenance jobs (backup, static export, description
// enrichment) on a schedule.
package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/observability"
)

// Job is one scheduled task. LockKey must be unique per job.
type Job struct {
	Name    string
	Every   time.Duration
	LockKey int64
	Run     func(ctx context.Context) error
}

type Worker struct {
	locker  Locker
	jobs    []Job
	next    map[string]time.Time
	poll    time.Duration
	backoff time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// New builds a worker. Jobs with a non-positive interval are dropped. Every
// remaining job is due immediately.
func New(locker Locker, jobs []Job, cfg Config, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Worker{
		locker:  locker,
		next:    map[string]time.Time{},
		poll:    cfg.PollInterval,
		backoff: cfg.RetryBackoff,
		log:     log,
		now:     time.Now,
	}
	if w.poll <= 0 {
		w.poll = time.Minute
	}
	for _, j := range jobs {
		if j.Every > 0 {
			w.jobs = append(w.jobs, j)
		}
	}
	return w
}

// Jobs returns the enabled jobs.
func (w *Worker) Jobs() []Job { return w.jobs }

func (w *Worker) Run(ctx context.Context) {
	w.log.Info("worker started", zap.Int("jobs", len(w.jobs)))
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker stopping")
			return
		default:
		}

		w.RunDue(ctx)

		select {
		case <-ctx.Done():
			w.log.Info("worker stopping")
			return
		case <-time.After(w.poll):
		}
	}
}

// RunDue runs every job whose time has come, one after another.
func (w *Worker) RunDue(ctx context.Context) {
	for _, j := range w.jobs {
		if ctx.Err() != nil {
			return
		}
		if next, ok := w.next[j.Name]; ok && w.now().Before(next) {
			continue
		}
		w.next[j.Name] = w.now().Add(w.runOne(ctx, j))
	}
}

// runOne runs a job under its lock and returns how long to wait before the
// next attempt.
func (w *Worker) runOne(ctx context.Context, j Job) time.Duration {
	log := w.log.With(zap.String("job", j.Name))

	release, ok, err := w.locker.TryLock(ctx, j.LockKey)
	if err != nil {
		observability.JobRunsTotal.WithLabelValues(j.Name, "lock_error").Inc()
		log.Error("job lock failed", zap.Error(err))
		return w.retryAfter(j)
	}
	if !ok {
		// Another replica is running it; look again at the next full interval.
		observability.JobRunsTotal.WithLabelValues(j.Name, "skipped").Inc()
		log.Debug("job locked elsewhere")
		return j.Every
	}
	defer release()

	start := w.now()
	err = w.safeRun(ctx, j)
	observability.JobDuration.WithLabelValues(j.Name).Observe(w.now().Sub(start).Seconds())
	if err != nil {
		observability.JobRunsTotal.WithLabelValues(j.Name, "error").Inc()
		log.Error("job failed", zap.Error(err))
		return w.retryAfter(j)
	}
	observability.JobRunsTotal.WithLabelValues(j.Name, "ok").Inc()
	log.Info("job finished", zap.Duration("took", w.now().Sub(start)))
	return j.Every
}

func (w *Worker) safeRun(ctx context.Context, j Job) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			err = fmt.Errorf("panic: %v", rvr)
		}
	}()
	return j.Run(ctx)
}

func (w *Worker) retryAfter(j Job) time.Duration {
	if w.backoff > 0 && w.backoff < j.Every {
		return w.backoff
	}
	return j.Every
}
