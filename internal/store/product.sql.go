package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const productColumns = `id, name, description, url, logo_url, display_order, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (CatalogProduct, error) {
	var i CatalogProduct
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Url,
		&i.LogoUrl,
		&i.DisplayOrder,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectProducts(rows pgx.Rows, err error) ([]CatalogProduct, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CatalogProduct
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listActiveProducts = `SELECT ` + productColumns + ` FROM catalog.products
WHERE is_active
ORDER BY display_order ASC, name ASC`

func (q *Queries) ListActiveProducts(ctx context.Context) ([]CatalogProduct, error) {
	return collectProducts(q.db.Query(ctx, listActiveProducts))
}

const listActiveProductsByName = `SELECT ` + productColumns + ` FROM catalog.products
WHERE is_active
ORDER BY name ASC`

func (q *Queries) ListActiveProductsByName(ctx context.Context) ([]CatalogProduct, error) {
	return collectProducts(q.db.Query(ctx, listActiveProductsByName))
}

const listAllProducts = `SELECT ` + productColumns + ` FROM catalog.products ORDER BY id`

func (q *Queries) ListAllProducts(ctx context.Context) ([]CatalogProduct, error) {
	return collectProducts(q.db.Query(ctx, listAllProducts))
}

const getProduct = `SELECT ` + productColumns + ` FROM catalog.products WHERE id = $1`

func (q *Queries) GetProduct(ctx context.Context, id int64) (CatalogProduct, error) {
	i, err := scanProduct(q.db.QueryRow(ctx, getProduct, id))
	return i, notFound(err)
}

const createProduct = `INSERT INTO catalog.products (name, description, url, logo_url)
VALUES ($1, $2, $3, $4)
RETURNING ` + productColumns

type CreateProductParams struct {
	Name        string
	Description string
	Url         string
	LogoUrl     pgtype.Text
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (CatalogProduct, error) {
	return scanProduct(q.db.QueryRow(ctx, createProduct, arg.Name, arg.Description, arg.Url, arg.LogoUrl))
}

// A NULL logo_url keeps the stored logo.
const updateProduct = `UPDATE catalog.products
SET name = $2, description = $3, url = $4,
    logo_url = COALESCE($5, logo_url), updated_at = now()
WHERE id = $1
RETURNING ` + productColumns

type UpdateProductParams struct {
	ID          int64
	Name        string
	Description string
	Url         string
	LogoUrl     pgtype.Text
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (CatalogProduct, error) {
	i, err := scanProduct(q.db.QueryRow(ctx, updateProduct, arg.ID, arg.Name, arg.Description, arg.Url, arg.LogoUrl))
	return i, notFound(err)
}

const softDeleteProduct = `UPDATE catalog.products SET is_active = false, updated_at = now() WHERE id = $1`

func (q *Queries) SoftDeleteProduct(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, softDeleteProduct, id)
	return err
}

const setProductDisplayOrder = `UPDATE catalog.products SET display_order = $2, updated_at = now() WHERE id = $1`

type SetProductDisplayOrderParams struct {
	ID           int64
	DisplayOrder int32
}

// SetProductDisplayOrder returns ErrNotFound when no row has the given id.
func (q *Queries) SetProductDisplayOrder(ctx context.Context, arg SetProductDisplayOrderParams) error {
	tag, err := q.db.Exec(ctx, setProductDisplayOrder, arg.ID, arg.DisplayOrder)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const updateProductDescription = `UPDATE catalog.products SET description = $2, updated_at = now() WHERE id = $1`

func (q *Queries) UpdateProductDescription(ctx context.Context, id int64, description string) error {
	_, err := q.db.Exec(ctx, updateProductDescription, id, description)
	return err
}

const deleteAllProducts = `DELETE FROM catalog.products
WHERE id NOT IN (SELECT DISTINCT product_id FROM catalog.documents)`

// DeleteAllProducts removes every product that has no documents attached and
// returns the number of rows deleted.
func (q *Queries) DeleteAllProducts(ctx context.Context) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteAllProducts)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
