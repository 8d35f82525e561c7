package maintenance

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lzjever/prodcat/internal/audit"
	"github.com/lzjever/prodcat/internal/core"
	"github.com/lzjever/prodcat/internal/observability"
	"github.com/lzjever/prodcat/internal/store"
)

const (
	minURLLength     = 5
	enrichedEnough   = 150
	minUsefulLength  = 50
	placeholderStart = "Innovative solution"
)

type EnrichStore interface {
	ListAllProducts(ctx context.Context) ([]store.CatalogProduct, error)
	UpdateProductDescription(ctx context.Context, id int64, description string) error
}

// Describer fetches a description for a product page; *enrich.Fetcher implements it.
type Describer interface {
	Describe(ctx context.Context, url string) (string, error)
}

type EnrichResult struct {
	Checked int
	Updated int
	Skipped int
	Failed  int
}

// NeedsEnrichment reports whether a product's description should be fetched
// from its page: it has a usable URL and its description is short or still
// the seed placeholder.
func NeedsEnrichment(p store.CatalogProduct) bool {
	if utf8.RuneCountInString(p.Url) < minURLLength {
		return false
	}
	return utf8.RuneCountInString(p.Description) <= enrichedEnough ||
		strings.HasPrefix(p.Description, placeholderStart)
}

// Enricher fills in short product descriptions from product pages, one
// request per interval.
type Enricher struct {
	store   EnrichStore
	fetch   Describer
	rec     audit.Auditor
	limiter *rate.Limiter
	log     *zap.Logger
}

func NewEnricher(s EnrichStore, fetch Describer, rec audit.Auditor, interval time.Duration, log *zap.Logger) *Enricher {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Enricher{store: s, fetch: fetch, rec: rec, limiter: rate.NewLimiter(limit, 1), log: log}
}

// Run processes every product. Per-product failures are logged and counted;
// only a failure to list products or a canceled context is returned.
func (e *Enricher) Run(ctx context.Context) (EnrichResult, error) {
	products, err := e.store.ListAllProducts(ctx)
	if err != nil {
		return EnrichResult{}, fmt.Errorf("list products: %w", err)
	}
	e.log.Info("checking products", zap.Int("count", len(products)))

	var res EnrichResult
	for _, p := range products {
		res.Checked++
		log := e.log.With(zap.Int64("product_id", p.ID), zap.String("name", p.Name))
		if !NeedsEnrichment(p) {
			res.Skipped++
			observability.EnrichTotal.WithLabelValues("skipped").Inc()
			log.Debug("skipping product")
			continue
		}
		if err := e.limiter.Wait(ctx); err != nil {
			return res, err
		}

		desc, err := e.fetch.Describe(ctx, p.Url)
		if err != nil {
			res.Failed++
			observability.EnrichTotal.WithLabelValues("failed").Inc()
			log.Warn("fetch failed", zap.String("url", p.Url), zap.Error(err))
			continue
		}
		if utf8.RuneCountInString(desc) <= minUsefulLength {
			res.Skipped++
			observability.EnrichTotal.WithLabelValues("kept").Inc()
			log.Info("no usable description found, keeping existing")
			continue
		}
		if err := e.store.UpdateProductDescription(ctx, p.ID, desc); err != nil {
			res.Failed++
			observability.EnrichTotal.WithLabelValues("failed").Inc()
			log.Error("update description failed", zap.Error(err))
			continue
		}
		res.Updated++
		observability.EnrichTotal.WithLabelValues("updated").Inc()
		e.rec.Record(ctx, core.ActionUpdate, core.EntityProduct, p.ID, map[string]any{"type": "ENRICH"}, SystemActor)
		log.Info("updated description")
	}
	return res, nil
}
