package store

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type CatalogProduct struct {
	ID           int64
	Name         string
	Description  string
	Url          string
	LogoUrl      pgtype.Text
	DisplayOrder int32
	IsActive     bool
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type CatalogDocument struct {
	ID            int64
	ProductID     int64
	Type          string
	Name          string
	Url           string
	UploadedBy    string
	DownloadCount int32
	CreatedAt     pgtype.Timestamptz
}

type CatalogUser struct {
	ID           int64
	EmployeeName string
	MobileNumber string
	Email        string
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
	UpdatedBy    string
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type CatalogSiteAsset struct {
	Key   string
	Value string
}

type CatalogAuditLog struct {
	ID          int64
	Action      string
	Entity      string
	EntityID    pgtype.Text
	Details     string
	PerformedBy string
	Timestamp   pgtype.Timestamptz
}
