package store

import "context"

const listSiteAssets = `SELECT key, value FROM catalog.site_assets ORDER BY key`

func (q *Queries) ListSiteAssets(ctx context.Context) ([]CatalogSiteAsset, error) {
	rows, err := q.db.Query(ctx, listSiteAssets)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CatalogSiteAsset
	for rows.Next() {
		var i CatalogSiteAsset
		if err := rows.Scan(&i.Key, &i.Value); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertSiteAsset = `INSERT INTO catalog.site_assets (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

func (q *Queries) UpsertSiteAsset(ctx context.Context, key, value string) error {
	_, err := q.db.Exec(ctx, upsertSiteAsset, key, value)
	return err
}
