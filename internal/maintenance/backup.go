package maintenance

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lzjever/prodcat/internal/audit"
	"github.com/lzjever/prodcat/internal/core"
	"github.com/lzjever/prodcat/internal/store"
)

// BackupSource is the read side of store.Queries used by Backup.
type BackupSource interface {
	ListAllUsers(ctx context.Context) ([]store.CatalogUser, error)
	ListAllProducts(ctx context.Context) ([]store.CatalogProduct, error)
	ListAllDocuments(ctx context.Context) ([]store.CatalogDocument, error)
	ListSiteAssets(ctx context.Context) ([]store.CatalogSiteAsset, error)
	ListAllAuditLogs(ctx context.Context) ([]store.CatalogAuditLog, error)
}

type BackupCounts struct {
	Users     int `json:"users"`
	Products  int `json:"products"`
	Documents int `json:"documents"`
	Assets    int `json:"assets"`
	Logs      int `json:"logs"`
}

type BackupData struct {
	Users     []core.User       `json:"users"`
	Products  []core.Product    `json:"products"`
	Documents []core.Document   `json:"documents"`
	Assets    []core.SiteAsset  `json:"assets"`
	Logs      []core.AuditEvent `json:"logs"`
}

// Backup is the document written to disk. Password hashes are never included.
type Backup struct {
	Timestamp string       `json:"timestamp"`
	Counts    BackupCounts `json:"counts"`
	Data      BackupData   `json:"data"`
}

type BackupResult struct {
	Path   string
	Counts BackupCounts
}

// backupStamp is an ISO-8601 time with ':' and '.' replaced so it is safe in file names.
func backupStamp(t time.Time) string {
	s := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.NewReplacer(":", "-", ".", "-").Replace(s)
}

// RunBackup reads every table concurrently and writes
// <dir>/prod_backup_<timestamp>.json. A failed audit log read is logged and
// produces an empty log list; any other read failure aborts the backup.
func RunBackup(ctx context.Context, src BackupSource, dir string, now time.Time, log *zap.Logger) (BackupResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var (
		users    []store.CatalogUser
		products []store.CatalogProduct
		docs     []store.CatalogDocument
		assets   []store.CatalogSiteAsset
		logs     []store.CatalogAuditLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = src.ListAllUsers(gctx)
		return wrap("users", err)
	})
	g.Go(func() (err error) {
		products, err = src.ListAllProducts(gctx)
		return wrap("products", err)
	})
	g.Go(func() (err error) {
		docs, err = src.ListAllDocuments(gctx)
		return wrap("documents", err)
	})
	g.Go(func() (err error) {
		assets, err = src.ListSiteAssets(gctx)
		return wrap("assets", err)
	})
	g.Go(func() error {
		var err error
		logs, err = src.ListAllAuditLogs(gctx)
		if err != nil {
			log.Warn("could not read audit logs, backing up without them", zap.Error(err))
			logs = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return BackupResult{}, err
	}

	b := Backup{Timestamp: backupStamp(now)}
	b.Data.Users = make([]core.User, len(users))
	for i, u := range users {
		b.Data.Users[i] = u.ToCore()
	}
	b.Data.Products = make([]core.Product, len(products))
	for i, p := range products {
		b.Data.Products[i] = p.ToCore()
	}
	b.Data.Documents = make([]core.Document, len(docs))
	for i, d := range docs {
		b.Data.Documents[i] = d.ToCore()
	}
	b.Data.Assets = make([]core.SiteAsset, len(assets))
	for i, a := range assets {
		b.Data.Assets[i] = core.SiteAsset{Key: a.Key, Value: a.Value}
	}
	b.Data.Logs = make([]core.AuditEvent, len(logs))
	for i, l := range logs {
		b.Data.Logs[i] = audit.EventFromRow(l)
	}
	b.Counts = BackupCounts{
		Users:     len(users),
		Products:  len(products),
		Documents: len(docs),
		Assets:    len(assets),
		Logs:      len(logs),
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return BackupResult{}, fmt.Errorf("create backup dir: %w", err)
	}
	path := filepath.Join(dir, "prod_backup_"+b.Timestamp+".json")
	if err := writeJSONFile(path, b); err != nil {
		return BackupResult{}, err
	}
	return BackupResult{Path: path, Counts: b.Counts}, nil
}

func wrap(what string, err error) error {
	if err != nil {
		return fmt.Errorf("read %s: %w", what, err)
	}
	return nil
}

// writeJSONFile writes v indented to a temp file and renames it into place.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
