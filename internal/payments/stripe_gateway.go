package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	billingportalsession "github.com/stripe/stripe-go/v76/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/invoice"
	"github.com/stripe/stripe-go/v76/paymentmethod"
	"github.com/stripe/stripe-go/v76/setupintent"
	"github.com/stripe/stripe-go/v76/subscription"

	"paperbase/pkg/utils"
)

type StripeGateway struct {
	cfg Config
}

func NewStripeGateway(cfg Config) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, &utils.ConfigurationError{Missing: "STRIPE_SECRET_KEY"}
	}
	if cfg.WebhookSecret == "" {
		return nil, &utils.ConfigurationError{Missing: "STRIPE_WEBHOOK_SECRET"}
	}
	stripe.Key = cfg.SecretKey
	return &StripeGateway{cfg: cfg}, nil
}

func (g *StripeGateway) Config() Config { return g.cfg }

// CreateCustomer tags the Stripe customer with the internal subject
// identifiers; the reconciler falls back to this metadata when a customer-id
// lookup comes up empty.
func (g *StripeGateway) CreateCustomer(ctx context.Context, p CustomerParams) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(p.Email),
	}
	if p.Name != "" {
		params.Name = stripe.String(p.Name)
	}
	params.Context = ctx
	params.AddMetadata("subject_kind", p.SubjectKind)
	params.AddMetadata("subject_id", p.SubjectID)

	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return c.ID, nil
}

func (g *StripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*SubscriptionInfo, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := subscription.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe get subscription: %w", err)
	}

	info := &SubscriptionInfo{
		ID:               sub.ID,
		Status:           string(sub.Status),
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		Metadata:         sub.Metadata,
	}
	if sub.Customer != nil {
		info.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		info.PriceID = sub.Items.Data[0].Price.ID
	}
	return info, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, customerID, priceID string, metadata map[string]string) (*CheckoutSessionInfo, error) {
	params := &stripe.CheckoutSessionParams{
		Customer:   stripe.String(customerID),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(g.cfg.SuccessURL),
		CancelURL:  stripe.String(g.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}
	return &CheckoutSessionInfo{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	if returnURL == "" {
		returnURL = g.cfg.PortalReturnURL
	}
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	s, err := billingportalsession.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create portal session: %w", err)
	}
	return s.URL, nil
}

func (g *StripeGateway) CreateSetupIntent(ctx context.Context, customerID string) (*SetupIntentInfo, error) {
	params := &stripe.SetupIntentParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	si, err := setupintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create setup intent: %w", err)
	}
	return &SetupIntentInfo{ID: si.ID, ClientSecret: si.ClientSecret}, nil
}

func (g *StripeGateway) ListPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethodInfo, error) {
	params := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(string(stripe.PaymentMethodTypeCard)),
	}
	params.Context = ctx

	var methods []PaymentMethodInfo
	iter := paymentmethod.List(params)
	for iter.Next() {
		pm := iter.PaymentMethod()
		info := PaymentMethodInfo{ID: pm.ID}
		if pm.Card != nil {
			info.Brand = string(pm.Card.Brand)
			info.Last4 = pm.Card.Last4
			info.ExpMonth = pm.Card.ExpMonth
			info.ExpYear = pm.Card.ExpYear
		}
		methods = append(methods, info)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("stripe list payment methods: %w", err)
	}
	return methods, nil
}

func (g *StripeGateway) ListInvoices(ctx context.Context, customerID string) ([]InvoiceInfo, error) {
	params := &stripe.InvoiceListParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx

	var invoices []InvoiceInfo
	iter := invoice.List(params)
	for iter.Next() {
		inv := iter.Invoice()
		invoices = append(invoices, InvoiceInfo{
			ID:         inv.ID,
			Number:     inv.Number,
			Status:     string(inv.Status),
			AmountDue:  inv.AmountDue,
			AmountPaid: inv.AmountPaid,
			Currency:   string(inv.Currency),
			Created:    inv.Created,
			HostedURL:  inv.HostedInvoiceURL,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("stripe list invoices: %w", err)
	}
	return invoices, nil
}
