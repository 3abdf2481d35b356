package payments

import (
	"context"
	"os"
)

// Config carries the processor credentials and redirect URLs. Missing
// credentials disable the billing feature entirely (ConfigurationError at
// wiring time) instead of degrading silently.
type Config struct {
	SecretKey       string // sk_... API key
	WebhookSecret   string // whsec_... shared secret for event signatures
	SuccessURL      string // checkout success redirect
	CancelURL       string // checkout cancel redirect
	PortalReturnURL string // default billing-portal return
}

func ConfigFromEnv() Config {
	return Config{
		SecretKey:       os.Getenv("STRIPE_SECRET_KEY"),
		WebhookSecret:   os.Getenv("STRIPE_WEBHOOK_SECRET"),
		SuccessURL:      os.Getenv("BILLING_SUCCESS_URL"),
		CancelURL:       os.Getenv("BILLING_CANCEL_URL"),
		PortalReturnURL: os.Getenv("BILLING_PORTAL_RETURN_URL"),
	}
}

type CustomerParams struct {
	Email       string
	Name        string
	SubjectKind string
	SubjectID   string
}

// SubscriptionInfo is the authoritative state re-fetched from the processor.
// Webhook payloads can be stale relative to a fast-following update event,
// so the reconciler trusts this over the payload.
type SubscriptionInfo struct {
	ID               string
	CustomerID       string
	Status           string
	PriceID          string
	CurrentPeriodEnd int64
	Metadata         map[string]string
}

type CheckoutSessionInfo struct {
	ID  string
	URL string
}

type SetupIntentInfo struct {
	ID           string
	ClientSecret string
}

type PaymentMethodInfo struct {
	ID       string
	Brand    string
	Last4    string
	ExpMonth int64
	ExpYear  int64
}

type InvoiceInfo struct {
	ID         string
	Number     string
	Status     string
	AmountDue  int64
	AmountPaid int64
	Currency   string
	Created    int64
	HostedURL  string
}

// Gateway is the payment-processor surface the services depend on. The
// Stripe implementation lives in stripe_gateway.go; tests substitute mocks.
type Gateway interface {
	CreateCustomer(ctx context.Context, params CustomerParams) (string, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionInfo, error)
	CreateCheckoutSession(ctx context.Context, customerID, priceID string, metadata map[string]string) (*CheckoutSessionInfo, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	CreateSetupIntent(ctx context.Context, customerID string) (*SetupIntentInfo, error)
	ListPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethodInfo, error)
	ListInvoices(ctx context.Context, customerID string) ([]InvoiceInfo, error)
}
