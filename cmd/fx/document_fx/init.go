package document_fx

import (
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"
	"paperbase/internal/repositories"
	"paperbase/internal/services"
	"paperbase/pkg/utils"
)

var Module = fx.Provide(
	provideDocumentRepo, provideGenerationClient,
	provideEnrichmentService, provideDocumentService)

func provideDocumentRepo(db *gorm.DB) repositories.IDocumentRepository {
	return repositories.NewDocumentRepository(db)
}

func provideGenerationClient() (utils.GenerationClientInterface, error) {
	return utils.NewGenerationClient(
		os.Getenv("AI_PROVIDER"),
		os.Getenv("AI_API_KEY"),
		os.Getenv("AI_MODEL"))
}

func provideEnrichmentService(
	quotaService services.QuotaServiceInterface,
	documentRepo repositories.IDocumentRepository,
	client utils.GenerationClientInterface,
) services.EnrichmentServiceInterface {
	return services.NewEnrichmentService(quotaService, documentRepo, client)
}

func provideDocumentService(
	scopeService services.BillingScopeServiceInterface,
	quotaService services.QuotaServiceInterface,
	enrichmentService services.EnrichmentServiceInterface,
	documentRepo repositories.IDocumentRepository,
) services.DocumentServiceInterface {
	return services.NewDocumentService(scopeService, quotaService, enrichmentService, documentRepo)
}
