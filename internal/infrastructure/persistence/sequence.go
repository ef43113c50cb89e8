package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// nextSequence increments and returns the named counter of a tenant.
// Counters start at 1 and are created on first use.
func nextSequence(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, name string) (int64, error) {
	var value int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bump := func() *gorm.DB {
			return tx.Model(&models.SequenceModel{}).
				Where("tenant_id = ? AND name = ?", tenantID, name).
				UpdateColumn("last_value", gorm.Expr("last_value + 1"))
		}

		res := bump()
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// A concurrent caller may create the row first; the savepoint
			// keeps the outer transaction usable in that case.
			createErr := tx.Transaction(func(sp *gorm.DB) error {
				return sp.Create(&models.SequenceModel{TenantID: tenantID, Name: name, LastValue: 1}).Error
			})
			if createErr != nil {
				if !isDuplicate(createErr) {
					return createErr
				}
				if err := bump().Error; err != nil {
					return err
				}
			}
		}

		return tx.Model(&models.SequenceModel{}).
			Where("tenant_id = ? AND name = ?", tenantID, name).
			Select("last_value").
			Scan(&value).Error
	})
	if err != nil {
		return 0, translateError(err, "Sequence")
	}
	return value, nil
}
