package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"paperbase/cmd/fx/account_fx"
	"paperbase/cmd/fx/billing_fx"
	"paperbase/cmd/fx/controllers_fx"
	"paperbase/cmd/fx/db_fx"
	"paperbase/cmd/fx/document_fx"
	"paperbase/cmd/fx/payment_fx"
	"paperbase/cmd/fx/plan_fx"
	"paperbase/cmd/fx/quota_fx"
	"paperbase/cmd/fx/webhook_fx"
	"paperbase/internal/api/controllers"
	"paperbase/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		db_fx.Module,
		plan_fx.Module,
		payment_fx.Module,
		account_fx.Module,
		billing_fx.Module,
		quota_fx.Module,
		webhook_fx.Module,
		document_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Println("Starting HTTP server on port " + port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	billingController *controllers.BillingController,
	webhookController *controllers.WebhookController,
	adminController *controllers.AdminController,
	documentController *controllers.DocumentController) *gin.Engine {

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, accountController, billingController, webhookController, adminController, documentController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	accountController *controllers.AccountController,
	billingController *controllers.BillingController,
	webhookController *controllers.WebhookController,
	adminController *controllers.AdminController,
	documentController *controllers.DocumentController) {

	authGroup := r.Group("/auth")
	authGroup.POST("/register", accountController.Register)
	authGroup.POST("/login", accountController.Login)

	r.GET("/plans", billingController.GetPlans)

	// Signature-verified, never behind JWT: the processor is the caller.
	r.POST("/billing/webhook", webhookController.HandleWebhook)

	billingGroup := r.Group("/billing")
	billingGroup.Use(middleware.JWTAuthMiddleware())
	billingGroup.GET("/subscription", billingController.GetSubscription)
	billingGroup.GET("/usage", billingController.GetUsage)
	billingGroup.POST("/checkout", billingController.CreateCheckoutSession)
	billingGroup.POST("/portal", billingController.CreatePortalSession)
	billingGroup.POST("/setup-intent", billingController.CreateSetupIntent)
	billingGroup.GET("/payment-methods", billingController.ListPaymentMethods)
	billingGroup.GET("/invoices", billingController.ListInvoices)

	documentGroup := r.Group("/documents")
	documentGroup.Use(middleware.JWTAuthMiddleware())
	documentGroup.POST("", documentController.CreateDocument)

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	adminGroup.GET("/webhooks", adminController.ListWebhookEvents)
	adminGroup.GET("/webhooks/:id", adminController.GetWebhookEvent)
}
