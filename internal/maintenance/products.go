package maintenance

import (
	"context"
	"fmt"

	"github.com/lzjever/prodcat/internal/store"
)

// ProductSummary is one row of `prodcatctl db products list`.
type ProductSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type ProductLister interface {
	ListAllProducts(ctx context.Context) ([]store.CatalogProduct, error)
}

// ListProducts returns every product, active or not, by id.
func ListProducts(ctx context.Context, q ProductLister) ([]ProductSummary, error) {
	rows, err := q.ListAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]ProductSummary, len(rows))
	for i, p := range rows {
		out[i] = ProductSummary{ID: p.ID, Name: p.Name, URL: p.Url, Description: p.Description}
	}
	return out, nil
}
