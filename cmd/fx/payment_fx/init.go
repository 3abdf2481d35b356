package payment_fx

import (
	"go.uber.org/fx"
	"paperbase/internal/payments"
)

var Module = fx.Provide(
	provideConfig, provideGateway)

func provideConfig() payments.Config {
	return payments.ConfigFromEnv()
}

func provideGateway(cfg payments.Config) (payments.Gateway, error) {
	return payments.NewStripeGateway(cfg)
}
