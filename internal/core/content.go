package core

// Content is the public site document: site assets keyed by name plus the
// active product list.
type Content struct {
	GeneratedAt string            `json:"generatedAt,omitempty"`
	Note        string            `json:"note,omitempty"`
	Assets      map[string]string `json:"assets"`
	Products    []Product         `json:"products"`
}

// AssetMap indexes assets by key. Later duplicates win.
func AssetMap(assets []SiteAsset) map[string]string {
	m := make(map[string]string, len(assets))
	for _, a := range assets {
		m[a.Key] = a.Value
	}
	return m
}
