package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"paperbase/internal/repositories"
	"paperbase/internal/services"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	subscriptionRepo repositories.ISubscriptionRepository,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, subscriptionRepo)
}
