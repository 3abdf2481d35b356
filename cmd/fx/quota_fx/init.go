package quota_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"paperbase/internal/repositories"
	"paperbase/internal/services"
)

var Module = fx.Provide(
	provideUsageRepo, provideQuotaService)

func provideUsageRepo(db *gorm.DB) repositories.IUsageRepository {
	return repositories.NewUsageRepository(db)
}

func provideQuotaService(
	documentRepo repositories.IDocumentRepository,
	usageRepo repositories.IUsageRepository,
) services.QuotaServiceInterface {
	return services.NewQuotaService(documentRepo, usageRepo)
}
