// Package maintenance holds the operator tasks behind `prodcatctl db`:
// schema migration, seeding, backups, static export and description enrichment.
package maintenance

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/lzjever/prodcat/internal/enrich"
)

// DefaultEnvFile is loaded, when present, before the environment is processed.
const DefaultEnvFile = ".env.production.local"

type Config struct {
	DBDSN        string `envconfig:"PRODCAT_DB_DSN" required:"true"`
	LogLevel     string `envconfig:"PRODCAT_LOG_LEVEL" default:"info"`
	AuditLogPath string `envconfig:"PRODCAT_AUDIT_LOG_PATH" default:"server/logs/app.log"`

	BackupDir  string `envconfig:"PRODCAT_BACKUP_DIR" default:"backups"`
	ExportPath string `envconfig:"PRODCAT_EXPORT_PATH" default:"content.json"`

	SeedAdminPassword string `envconfig:"PRODCAT_SEED_ADMIN_PASSWORD"`

	EnrichTimeout   time.Duration `envconfig:"PRODCAT_ENRICH_TIMEOUT" default:"15s"`
	EnrichInterval  time.Duration `envconfig:"PRODCAT_ENRICH_INTERVAL" default:"500ms"`
	EnrichUserAgent string        `envconfig:"PRODCAT_ENRICH_USER_AGENT"`
}

// LoadEnvFile applies path to the process environment, overriding variables
// already set. It reports false, with no error, when the file does not exist.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if err := godotenv.Overload(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", path, err)
	}
	return true, nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if cfg.EnrichUserAgent == "" {
		cfg.EnrichUserAgent = enrich.DefaultUserAgent
	}
	return cfg, nil
}
