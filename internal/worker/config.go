package worker

import "time"

type Config struct {
	DBDSN           string        `envconfig:"PRODCAT_DB_DSN" required:"true"`
	MetricsAddr     string        `envconfig:"PRODCAT_WORKER_METRICS_ADDR" default:"0.0.0.0:9091"`
	LogLevel        string        `envconfig:"PRODCAT_LOG_LEVEL" default:"info"`
	LogFile         string        `envconfig:"PRODCAT_LOG_FILE"`
	AuditLogPath    string        `envconfig:"PRODCAT_AUDIT_LOG_PATH" default:"server/logs/app.log"`
	PollInterval    time.Duration `envconfig:"PRODCAT_WORKER_POLL_INTERVAL" default:"1m"`
	RetryBackoff    time.Duration `envconfig:"PRODCAT_WORKER_RETRY_BACKOFF" default:"5m"`
	ShutdownTimeout time.Duration `envconfig:"PRODCAT_SHUTDOWN_TIMEOUT" default:"30s"`

	// A zero interval disables the job.
	BackupEvery time.Duration `envconfig:"PRODCAT_BACKUP_EVERY" default:"24h"`
	BackupDir   string        `envconfig:"PRODCAT_BACKUP_DIR" default:"backups"`
	ExportEvery time.Duration `envconfig:"PRODCAT_EXPORT_EVERY" default:"0"`
	ExportPath  string        `envconfig:"PRODCAT_EXPORT_PATH" default:"content.json"`
	EnrichEvery time.Duration `envconfig:"PRODCAT_ENRICH_EVERY" default:"0"`

	EnrichTimeout   time.Duration `envconfig:"PRODCAT_ENRICH_TIMEOUT" default:"15s"`
	EnrichInterval  time.Duration `envconfig:"PRODCAT_ENRICH_INTERVAL" default:"500ms"`
	EnrichUserAgent string        `envconfig:"PRODCAT_ENRICH_USER_AGENT"`
}
