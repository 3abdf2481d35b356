package webhook_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"paperbase/internal/payments"
	"paperbase/internal/plans"
	"paperbase/internal/repositories"
	"paperbase/internal/services"
)

var Module = fx.Provide(
	provideWebhookEventRepo, provideWebhookService, provideWebhookAdminService)

func provideWebhookEventRepo(db *gorm.DB) repositories.IWebhookEventRepository {
	return repositories.NewWebhookEventRepository(db)
}

func provideWebhookService(
	eventRepo repositories.IWebhookEventRepository,
	subscriptionRepo repositories.ISubscriptionRepository,
	registry *plans.Registry,
	gateway payments.Gateway,
	cfg payments.Config,
) services.WebhookServiceInterface {
	return services.NewWebhookService(eventRepo, subscriptionRepo, registry, gateway, cfg)
}

func provideWebhookAdminService(
	eventRepo repositories.IWebhookEventRepository,
) services.WebhookAdminServiceInterface {
	return services.NewWebhookAdminService(eventRepo)
}
