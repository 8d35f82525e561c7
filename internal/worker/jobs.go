package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lzjever/prodcat/internal/audit"
	"github.com/lzjever/prodcat/internal/enrich"
	"github.com/lzjever/prodcat/internal/maintenance"
	"github.com/lzjever/prodcat/internal/store"
)

// Advisory lock keys, one per job.
const (
	lockBackup int64 = 7_301_001
	lockExport int64 = 7_301_002
	lockEnrich int64 = 7_301_003
)

// MaintenanceJobs wires the maintenance tasks to the schedule in cfg.
func MaintenanceJobs(q *store.Queries, rec audit.Auditor, cfg Config, log *zap.Logger) []Job {
	return []Job{
		{
			Name:    "backup",
			Every:   cfg.BackupEvery,
			LockKey: lockBackup,
			Run: func(ctx context.Context) error {
				res, err := maintenance.RunBackup(ctx, q, cfg.BackupDir, time.Now(), log)
				if err == nil {
					log.Info("backup written", zap.String("path", res.Path), zap.Int("products", res.Counts.Products))
				}
				return err
			},
		},
		{
			Name:    "export",
			Every:   cfg.ExportEvery,
			LockKey: lockExport,
			Run: func(ctx context.Context) error {
				_, err := maintenance.ExportContent(ctx, q, cfg.ExportPath, time.Now())
				return err
			},
		},
		{
			Name:    "enrich",
			Every:   cfg.EnrichEvery,
			LockKey: lockEnrich,
			Run: func(ctx context.Context) error {
				fetcher := enrich.NewFetcher(cfg.EnrichTimeout, cfg.EnrichUserAgent)
				res, err := maintenance.NewEnricher(q, fetcher, rec, cfg.EnrichInterval, log).Run(ctx)
				log.Info("enrichment pass done",
					zap.Int("checked", res.Checked), zap.Int("updated", res.Updated), zap.Int("failed", res.Failed))
				return err
			},
		},
	}
}
