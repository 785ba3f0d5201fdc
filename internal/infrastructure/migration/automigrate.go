package migration

import (
	"github.com/ns-ai-search/console/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the models created by the auto-migrate strategy.
// casbin_rule is owned by the casbin gorm adapter.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.WebsiteModel{},
		&models.AdminLogModel{},
		&models.UsageLogModel{},
		&models.StaffUserModel{},
	}
}
