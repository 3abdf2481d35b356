package plan_fx

import (
	"go.uber.org/fx"
	"paperbase/internal/plans"
)

var Module = fx.Provide(
	provideRegistry)

func provideRegistry() *plans.Registry {
	return plans.NewRegistryFromEnv()
}
