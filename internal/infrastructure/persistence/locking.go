package persistence

import (
	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// updateWithVersion writes every column of model if the stored row still
// carries version expected. model must already hold the next version.
func updateWithVersion(tx *gorm.DB, model any, id uuid.UUID, expected int, resource string) error {
	var current int
	result := tx.Model(model).
		Where("id = ?", id).
		Select("version").
		Scan(&current)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound(resource)
	}
	if current != expected {
		return shared.ErrConcurrencyConflict
	}

	result = tx.Model(model).
		Where("id = ? AND version = ?", id, expected).
		Select("*").
		Omit(clause.Associations, "id", "tenant_id", "created_at", "created_by").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
