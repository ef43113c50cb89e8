package models

import (
	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/asset"
)

// AssetModel stores the metadata of an uploaded or generated file
type AssetModel struct {
	TenantAggregateModel
	Kind        asset.Kind `gorm:"type:varchar(10);not null;index"`
	FileName    string     `gorm:"type:varchar(200);not null"`
	ContentType string     `gorm:"type:varchar(100);not null"`
	Size        int64      `gorm:"not null"`
	StorageKey  string     `gorm:"type:varchar(300);not null;uniqueIndex"`
	OwnerType   string     `gorm:"type:varchar(20);index:idx_assets_owner,priority:1"`
	OwnerID     *uuid.UUID `gorm:"type:char(36);index:idx_assets_owner,priority:2"`
}

// TableName returns the table name for GORM
func (AssetModel) TableName() string {
	return "assets"
}

// ToDomain converts the persistence model to a domain Asset
func (m *AssetModel) ToDomain() *asset.Asset {
	return &asset.Asset{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Kind:                m.Kind,
		FileName:            m.FileName,
		ContentType:         m.ContentType,
		Size:                m.Size,
		StorageKey:          m.StorageKey,
		OwnerType:           m.OwnerType,
		OwnerID:             m.OwnerID,
	}
}

// FromDomain populates the persistence model from a domain Asset
func (m *AssetModel) FromDomain(a *asset.Asset) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Kind = a.Kind
	m.FileName = a.FileName
	m.ContentType = a.ContentType
	m.Size = a.Size
	m.StorageKey = a.StorageKey
	m.OwnerType = a.OwnerType
	m.OwnerID = a.OwnerID
}
