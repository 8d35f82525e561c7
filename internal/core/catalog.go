package core

import "time"

type Product struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	URL          string     `json:"url"`
	LogoURL      *string    `json:"logoUrl"`
	DisplayOrder int        `json:"displayOrder"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	Documents    []Document `json:"documents,omitempty"`
}

type Document struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"productId"`
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	UploadedBy    string    `json:"uploadedBy"`
	DownloadCount int       `json:"downloadCount"`
	CreatedAt     time.Time `json:"createdAt"`
	Product       *Product  `json:"product,omitempty"`
}

// URLDocumentTypes are document types whose URL points at an external page
// rather than an uploaded file.
var URLDocumentTypes = []string{"Product website", "Product Demo"}

// IsURLDocumentType reports whether t links to an external page.
func IsURLDocumentType(t string) bool {
	for _, u := range URLDocumentTypes {
		if u == t {
			return true
		}
	}
	return false
}

type SiteAsset struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
