package models

import "github.com/google/uuid"

// SequenceModel holds the last number handed out for a named series,
// e.g. "order:2026" or "invoice:LDY:INV:202610"
type SequenceModel struct {
	TenantID  uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"type:varchar(60);primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "document_sequences"
}

// AllModels lists every model in dependency order
func AllModels() []any {
	return []any{
		&UserModel{},
		&BranchModel{},
		&ServiceAreaModel{},
		&BrandingSettingsModel{},
		&CustomerModel{},
		&CustomerAddressModel{},
		&ServiceItemModel{},
		&PlanModel{},
		&SubscriptionModel{},
		&OrderModel{},
		&OrderItemModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&PaymentModel{},
		&AssetModel{},
		&SequenceModel{},
	}
}
