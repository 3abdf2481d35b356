package services

import (
	"context"

	"github.com/google/uuid"

	"paperbase/internal/models/db_models"
	"paperbase/internal/models/response_models"
	"paperbase/internal/payments"
	"paperbase/internal/plans"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

type BillingServiceInterface interface {
	GetPlans() []response_models.PlanResponse
	GetSubscription(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind) (*response_models.SubscriptionResponse, error)
	CreateCheckoutSession(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind, plan plans.ID) (*response_models.CheckoutSessionResponse, error)
	CreatePortalSession(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind, returnURL string) (*response_models.PortalSessionResponse, error)
	CreateSetupIntent(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind) (*response_models.SetupIntentResponse, error)
	ListPaymentMethods(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind) ([]response_models.PaymentMethodResponse, error)
	ListInvoices(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind) ([]response_models.InvoiceResponse, error)
}

type BillingService struct {
	scopeService BillingScopeServiceInterface
	syncService  CustomerSyncServiceInterface
	accountRepo  repositories.AccountRepository
	registry     *plans.Registry
	gateway      payments.Gateway
}

func NewBillingService(
	scopeService BillingScopeServiceInterface,
	syncService CustomerSyncServiceInterface,
	accountRepo repositories.AccountRepository,
	registry *plans.Registry,
	gateway payments.Gateway,
) BillingServiceInterface {
	return &BillingService{
		scopeService: scopeService,
		syncService:  syncService,
		accountRepo:  accountRepo,
		registry:     registry,
		gateway:      gateway,
	}
}

func (s *BillingService) GetPlans() []response_models.PlanResponse {
	all := plans.All()
	result := make([]response_models.PlanResponse, 0, len(all))
	for _, id := range all {
		limits := plans.LimitsFor(id)
		result = append(result, response_models.PlanResponse{
			ID:              string(id),
			Seats:           limitValue(limits.Seats),
			Documents:       limitValue(limits.Documents),
			StorageMB:       limitValue(limits.StorageMB),
			AICallsPerMonth: limitValue(limits.AICallsPerMonth),
		})
	}
	return result
}

func (s *BillingService) GetSubscription(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind) (*response_models.SubscriptionResponse, error) {
	scope, err := s.scopeService.ResolveForUsage(ctx, actorID, kind)
	if err != nil {
		return nil, err
	}
	return &response_models.SubscriptionResponse{
		SubjectKind: string(scope.Kind),
		SubjectID:   scope.SubjectID.String(),
		Plan:        string(scope.Plan),
		Status:      string(scope.Status),
	}, nil
}

func (s *BillingService) CreateCheckoutSession(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind, plan plans.ID) (*response_models.CheckoutSessionResponse, error) {
	scope, customerID, err := s.resolveWithCustomer(ctx, actorID, kind)
	if err != nil {
		return nil, err
	}

	priceID, ok := s.registry.PriceForPlan(plan)
	if !ok {
		return nil, &utils.ConfigurationError{Missing: "price id for plan " + string(plan)}
	}

	metadata := map[string]string{
		"plan":         string(plan),
		"subject_kind": string(scope.Kind),
		"subject_id":   scope.SubjectID.String(),
	}
	if scope.Kind == db_models.SubjectOrganization {
		metadata["organization_id"] = scope.SubjectID.String()
	} else {
		metadata["user_id"] = scope.SubjectID.String()
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, customerID, priceID, metadata)
	if err != nil {
		return nil, err
	}
	return &response_models.CheckoutSessionResponse{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

func (s *BillingService) CreatePortalSession(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind, returnURL string) (*response_models.PortalSessionResponse, error) {
	_, customerID, err := s.resolveWithCustomer(ctx, actorID, kind)
	if err != nil {
		return nil, err
	}

	url, err := s.gateway.CreatePortalSession(ctx, customerID, returnURL)
	if err != nil {
		return nil, err
	}
	return &response_models.PortalSessionResponse{PortalURL: url}, nil
}

func (s *BillingService) CreateSetupIntent(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind) (*response_models.SetupIntentResponse, error) {
	_, customerID, err := s.resolveWithCustomer(ctx, actorID, kind)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateSetupIntent(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &response_models.SetupIntentResponse{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (s *BillingService) ListPaymentMethods(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind) ([]response_models.PaymentMethodResponse, error) {
	scope, err := s.scopeService.Resolve(ctx, actorID, kind)
	if err != nil {
		return nil, err
	}
	if scope.ExternalCustomerID == "" {
		return []response_models.PaymentMethodResponse{}, nil
	}

	methods, err := s.gateway.ListPaymentMethods(ctx, scope.ExternalCustomerID)
	if err != nil {
		return nil, err
	}
	result := make([]response_models.PaymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		result = append(result, response_models.PaymentMethodResponse{
			ID:       m.ID,
			Brand:    m.Brand,
			Last4:    m.Last4,
			ExpMonth: m.ExpMonth,
			ExpYear:  m.ExpYear,
		})
	}
	return result, nil
}

func (s *BillingService) ListInvoices(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind) ([]response_models.InvoiceResponse, error) {
	scope, err := s.scopeService.Resolve(ctx, actorID, kind)
	if err != nil {
		return nil, err
	}
	if scope.ExternalCustomerID == "" {
		return []response_models.InvoiceResponse{}, nil
	}

	invoices, err := s.gateway.ListInvoices(ctx, scope.ExternalCustomerID)
	if err != nil {
		return nil, err
	}
	result := make([]response_models.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, response_models.InvoiceResponse{
			ID:         inv.ID,
			Number:     inv.Number,
			Status:     inv.Status,
			AmountDue:  inv.AmountDue,
			AmountPaid: inv.AmountPaid,
			Currency:   inv.Currency,
			CreatedAt:  utils.FormatRFC3339(utils.FromUnixSeconds(inv.Created)),
			HostedURL:  inv.HostedURL,
		})
	}
	return result, nil
}

// resolveWithCustomer gates on billing role, then guarantees a processor
// customer exists for the scope.
func (s *BillingService) resolveWithCustomer(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind) (*BillingScope, string, error) {
	scope, err := s.scopeService.Resolve(ctx, actorID, kind)
	if err != nil {
		return nil, "", err
	}

	account, err := s.accountRepo.FindById(ctx, actorID.String())
	if err != nil {
		return nil, "", utils.ErrDatabaseError
	}
	if account == nil {
		return nil, "", utils.ErrAccountNotFound
	}

	customerID, err := s.syncService.EnsureExternalCustomer(ctx, scope, account.Email, account.Name)
	if err != nil {
		return nil, "", err
	}
	return scope, customerID, nil
}
