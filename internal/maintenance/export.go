package maintenance

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lzjever/prodcat/internal/audit"
	"github.com/lzjever/prodcat/internal/core"
	"github.com/lzjever/prodcat/internal/store"
)

const exportNote = "This file is a static export of the product catalog database."

type ExportSource interface {
	ListSiteAssets(ctx context.Context) ([]store.CatalogSiteAsset, error)
	ListActiveProducts(ctx context.Context) ([]store.CatalogProduct, error)
}

// ExportContent writes the static content file: active products in display
// order, then by name.
func ExportContent(ctx context.Context, src ExportSource, path string, now time.Time) (core.Content, error) {
	assets, err := src.ListSiteAssets(ctx)
	if err != nil {
		return core.Content{}, fmt.Errorf("read assets: %w", err)
	}
	products, err := src.ListActiveProducts(ctx)
	if err != nil {
		return core.Content{}, fmt.Errorf("read products: %w", err)
	}

	c := store.BuildContent(assets, products)
	c.GeneratedAt = now.UTC().Format(audit.TimestampLayout)
	c.Note = exportNote

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return core.Content{}, fmt.Errorf("create export dir: %w", err)
		}
	}
	if err := writeJSONFile(path, c); err != nil {
		return core.Content{}, err
	}
	return c, nil
}
