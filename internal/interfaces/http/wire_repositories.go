package http

import (
	"gorm.io/gorm"

	"github.com/ns-ai-search/console/internal/infrastructure/repository"
	"github.com/ns-ai-search/console/internal/shared/db"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	websiteRepo  *repository.WebsiteRepository
	adminLogRepo *repository.AdminLogRepository
	usageLogRepo *repository.UsageLogRepository
	staffRepo    *repository.StaffUserRepository
	txManager    *db.TransactionManager
}

func newRepositories(gdb *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		websiteRepo:  repository.NewWebsiteRepository(gdb, log),
		adminLogRepo: repository.NewAdminLogRepository(gdb, log),
		usageLogRepo: repository.NewUsageLogRepository(gdb, log),
		staffRepo:    repository.NewStaffUserRepository(gdb, log),
		txManager:    db.NewTransactionManager(gdb),
	}
}
