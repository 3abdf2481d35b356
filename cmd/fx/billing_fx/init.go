package billing_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"paperbase/internal/payments"
	"paperbase/internal/plans"
	"paperbase/internal/repositories"
	"paperbase/internal/services"
)

var Module = fx.Provide(
	provideSubscriptionRepo, provideMembershipRepo,
	provideScopeService, provideSyncService, provideBillingService)

func provideSubscriptionRepo(db *gorm.DB) repositories.ISubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideMembershipRepo(db *gorm.DB) repositories.IMembershipRepository {
	return repositories.NewMembershipRepository(db)
}

func provideScopeService(
	membershipRepo repositories.IMembershipRepository,
	subscriptionRepo repositories.ISubscriptionRepository,
) services.BillingScopeServiceInterface {
	return services.NewBillingScopeService(membershipRepo, subscriptionRepo)
}

func provideSyncService(
	subscriptionRepo repositories.ISubscriptionRepository,
	gateway payments.Gateway,
) services.CustomerSyncServiceInterface {
	return services.NewCustomerSyncService(subscriptionRepo, gateway)
}

func provideBillingService(
	scopeService services.BillingScopeServiceInterface,
	syncService services.CustomerSyncServiceInterface,
	accountRepo repositories.AccountRepository,
	registry *plans.Registry,
	gateway payments.Gateway,
) services.BillingServiceInterface {
	return services.NewBillingService(scopeService, syncService, accountRepo, registry, gateway)
}
