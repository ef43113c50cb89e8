package persistence

import (
	"fmt"
	"strings"

	"github.com/laundry/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or alters tables from the models and adds the
// per-tenant unique indexes. Postgres deployments use the SQL migrations
// instead; this serves sqlite and mysql.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	migrator := db.Migrator()
	for _, idx := range models.TenantUniqueIndexes() {
		if idx.Where != "" && db.Dialector.Name() == "mysql" {
			continue
		}
		if migrator.HasIndex(idx.Table, idx.Name) {
			continue
		}
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s)", idx.Name, idx.Table, strings.Join(idx.Columns, ", "))
		if idx.Where != "" {
			stmt += " WHERE " + idx.Where
		}
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s: %w", idx.Name, err)
		}
	}
	return nil
}
