package store

import "github.com/lzjever/prodcat/internal/core"

// ToCore converts a product row to its public view.
func (p CatalogProduct) ToCore() core.Product {
	out := core.Product{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		URL:          p.Url,
		DisplayOrder: int(p.DisplayOrder),
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt.Time,
		UpdatedAt:    p.UpdatedAt.Time,
	}
	if p.LogoUrl.Valid {
		logo := p.LogoUrl.String
		out.LogoURL = &logo
	}
	return out
}

func (d CatalogDocument) ToCore() core.Document {
	return core.Document{
		ID:            d.ID,
		ProductID:     d.ProductID,
		Type:          d.Type,
		Name:          d.Name,
		URL:           d.Url,
		UploadedBy:    d.UploadedBy,
		DownloadCount: int(d.DownloadCount),
		CreatedAt:     d.CreatedAt.Time,
	}
}

// ToCore drops the password hash.
func (u CatalogUser) ToCore() core.User {
	return core.User{
		ID:           u.ID,
		EmployeeName: u.EmployeeName,
		MobileNumber: u.MobileNumber,
		Email:        u.Email,
		Username:     u.Username,
		Role:         core.Role(u.Role),
		IsActive:     u.IsActive,
		UpdatedBy:    u.UpdatedBy,
		CreatedAt:    u.CreatedAt.Time,
	}
}

// ProductsWithDocuments attaches documents to their products, keeping the
// product order.
func ProductsWithDocuments(products []CatalogProduct, docs []CatalogDocument) []core.Product {
	byProduct := make(map[int64][]core.Document, len(products))
	for _, d := range docs {
		byProduct[d.ProductID] = append(byProduct[d.ProductID], d.ToCore())
	}
	out := make([]core.Product, len(products))
	for i, p := range products {
		out[i] = p.ToCore()
		out[i].Documents = byProduct[p.ID]
	}
	return out
}

// BuildContent assembles the public content document, keeping product order.
func BuildContent(assets []CatalogSiteAsset, products []CatalogProduct) core.Content {
	list := make([]core.SiteAsset, len(assets))
	for i, a := range assets {
		list[i] = core.SiteAsset{Key: a.Key, Value: a.Value}
	}
	out := core.Content{
		Assets:   core.AssetMap(list),
		Products: make([]core.Product, len(products)),
	}
	for i, p := range products {
		out.Products[i] = p.ToCore()
	}
	return out
}
