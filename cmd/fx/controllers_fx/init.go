package controllers_fx

import (
	"go.uber.org/fx"
	"paperbase/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewBillingController),
	fx.Provide(controllers.NewWebhookController),
	fx.Provide(controllers.NewAdminController),
	fx.Provide(controllers.NewDocumentController))
