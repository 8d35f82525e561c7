package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const documentColumns = `id, product_id, type, name, url, uploaded_by, download_count, created_at`

func scanDocument(row pgx.Row) (CatalogDocument, error) {
	var i CatalogDocument
	err := row.Scan(
		&i.ID,
		&i.ProductID,
		&i.Type,
		&i.Name,
		&i.Url,
		&i.UploadedBy,
		&i.DownloadCount,
		&i.CreatedAt,
	)
	return i, err
}

func collectDocuments(rows pgx.Rows, err error) ([]CatalogDocument, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CatalogDocument
	for rows.Next() {
		i, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listDocumentsByProducts = `SELECT ` + documentColumns + ` FROM catalog.documents
WHERE product_id = ANY($1::bigint[])
ORDER BY created_at ASC, id ASC`

func (q *Queries) ListDocumentsByProducts(ctx context.Context, productIDs []int64) ([]CatalogDocument, error) {
	return collectDocuments(q.db.Query(ctx, listDocumentsByProducts, productIDs))
}

const listAllDocuments = `SELECT ` + documentColumns + ` FROM catalog.documents ORDER BY id`

func (q *Queries) ListAllDocuments(ctx context.Context) ([]CatalogDocument, error) {
	return collectDocuments(q.db.Query(ctx, listAllDocuments))
}

const listDocuments = `SELECT d.id, d.product_id, d.type, d.name, d.url, d.uploaded_by, d.download_count, d.created_at,
       p.id, p.name, p.description, p.url, p.logo_url, p.display_order, p.is_active, p.created_at, p.updated_at
FROM catalog.documents d
JOIN catalog.products p ON p.id = d.product_id
ORDER BY d.created_at DESC, d.id DESC`

type ListDocumentsRow struct {
	CatalogDocument
	Product CatalogProduct
}

// ListDocuments returns every document with its product, newest first.
func (q *Queries) ListDocuments(ctx context.Context) ([]ListDocumentsRow, error) {
	rows, err := q.db.Query(ctx, listDocuments)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListDocumentsRow
	for rows.Next() {
		var i ListDocumentsRow
		if err := rows.Scan(
			&i.ID,
			&i.ProductID,
			&i.Type,
			&i.Name,
			&i.Url,
			&i.UploadedBy,
			&i.DownloadCount,
			&i.CreatedAt,
			&i.Product.ID,
			&i.Product.Name,
			&i.Product.Description,
			&i.Product.Url,
			&i.Product.LogoUrl,
			&i.Product.DisplayOrder,
			&i.Product.IsActive,
			&i.Product.CreatedAt,
			&i.Product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getDocument = `SELECT ` + documentColumns + ` FROM catalog.documents WHERE id = $1`

func (q *Queries) GetDocument(ctx context.Context, id int64) (CatalogDocument, error) {
	i, err := scanDocument(q.db.QueryRow(ctx, getDocument, id))
	return i, notFound(err)
}

const createDocument = `INSERT INTO catalog.documents (product_id, type, name, url, uploaded_by)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + documentColumns

type CreateDocumentParams struct {
	ProductID  int64
	Type       string
	Name       string
	Url        string
	UploadedBy string
}

func (q *Queries) CreateDocument(ctx context.Context, arg CreateDocumentParams) (CatalogDocument, error) {
	return scanDocument(q.db.QueryRow(ctx, createDocument, arg.ProductID, arg.Type, arg.Name, arg.Url, arg.UploadedBy))
}

const deleteDocument = `DELETE FROM catalog.documents WHERE id = $1`

func (q *Queries) DeleteDocument(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteDocument, id)
	return err
}

const incrementDownloadCount = `UPDATE catalog.documents SET download_count = download_count + 1
WHERE id = $1
RETURNING ` + documentColumns

func (q *Queries) IncrementDownloadCount(ctx context.Context, id int64) (CatalogDocument, error) {
	i, err := scanDocument(q.db.QueryRow(ctx, incrementDownloadCount, id))
	return i, notFound(err)
}
