package api

import "time"

type Config struct {
	HTTPAddr        string        `envconfig:"PRODCAT_HTTP_ADDR" default:"0.0.0.0:8080"`
	DBDSN           string        `envconfig:"PRODCAT_DB_DSN" required:"true"`
	DBMaxConns      int32         `envconfig:"PRODCAT_DB_MAX_CONNS" default:"10"`
	MetricsAddr     string        `envconfig:"PRODCAT_METRICS_ADDR" default:"0.0.0.0:9090"`
	LogLevel        string        `envconfig:"PRODCAT_LOG_LEVEL" default:"info"`
	LogFile         string        `envconfig:"PRODCAT_LOG_FILE"`
	ShutdownTimeout time.Duration `envconfig:"PRODCAT_SHUTDOWN_TIMEOUT" default:"30s"`
	Env             string        `envconfig:"PRODCAT_ENV" default:"development"`
	AllowedOrigins  []string      `envconfig:"PRODCAT_ALLOWED_ORIGINS" default:"*"`

	AuditLogPath string `envconfig:"PRODCAT_AUDIT_LOG_PATH" default:"server/logs/app.log"`
	DefaultActor string `envconfig:"PRODCAT_DEFAULT_ACTOR" default:"admin"`

	UploadDir      string `envconfig:"PRODCAT_UPLOAD_DIR" default:"public"`
	UploadMaxBytes int64  `envconfig:"PRODCAT_UPLOAD_MAX_BYTES" default:"33554432"`

	RedisURL        string        `envconfig:"PRODCAT_REDIS_URL"`
	ContentCacheTTL time.Duration `envconfig:"PRODCAT_CONTENT_CACHE_TTL" default:"5m"`

	// LogWindow is how far back /api/system-logs looks when ?days is absent.
	LogWindow time.Duration `envconfig:"PRODCAT_LOG_WINDOW" default:"120h"`
}
