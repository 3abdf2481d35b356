package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"paperbase/internal/models/db_models"
	"paperbase/internal/payments"
	"paperbase/internal/repositories"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateCustomer(ctx context.Context, params payments.CustomerParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) GetSubscription(ctx context.Context, subscriptionID string) (*payments.SubscriptionInfo, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.SubscriptionInfo), args.Error(1)
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, customerID, priceID string, metadata map[string]string) (*payments.CheckoutSessionInfo, error) {
	args := m.Called(ctx, customerID, priceID, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.CheckoutSessionInfo), args.Error(1)
}

func (m *mockGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	args := m.Called(ctx, customerID, returnURL)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) CreateSetupIntent(ctx context.Context, customerID string) (*payments.SetupIntentInfo, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.SetupIntentInfo), args.Error(1)
}

func (m *mockGateway) ListPaymentMethods(ctx context.Context, customerID string) ([]payments.PaymentMethodInfo, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payments.PaymentMethodInfo), args.Error(1)
}

func (m *mockGateway) ListInvoices(ctx context.Context, customerID string) ([]payments.InvoiceInfo, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payments.InvoiceInfo), args.Error(1)
}

func TestEnsureExternalCustomerCreatesOnce(t *testing.T) {
	db := newTestDB(t)
	subRepo := repositories.NewSubscriptionRepository(db)
	gateway := new(mockGateway)
	svc := NewCustomerSyncService(subRepo, gateway)
	ctx := context.Background()

	scope := resolvePersonal(t, db)

	gateway.On("CreateCustomer", ctx, mock.MatchedBy(func(p payments.CustomerParams) bool {
		return p.Email == "a@example.com" &&
			p.SubjectKind == "personal" &&
			p.SubjectID == scope.SubjectID.String()
	})).Return("cus_123", nil).Once()

	customerID, err := svc.EnsureExternalCustomer(ctx, scope, "a@example.com", "A")
	require.NoError(t, err)
	assert.Equal(t, "cus_123", customerID)

	// Second call short-circuits on the cached id; no second processor call.
	customerID, err = svc.EnsureExternalCustomer(ctx, scope, "a@example.com", "A")
	require.NoError(t, err)
	assert.Equal(t, "cus_123", customerID)

	sub, err := subRepo.FindBySubject(ctx, scope.SubjectID, scope.Kind)
	require.NoError(t, err)
	assert.Equal(t, "cus_123", sub.ExternalCustomerID)

	gateway.AssertExpectations(t)
}

func TestEnsureExternalCustomerLosingRacerAdoptsWinner(t *testing.T) {
	db := newTestDB(t)
	subRepo := repositories.NewSubscriptionRepository(db)
	gateway := new(mockGateway)
	svc := NewCustomerSyncService(subRepo, gateway)
	ctx := context.Background()

	scope := resolvePersonal(t, db)

	// Two requests resolved the scope before either persisted a customer;
	// both see an empty id and both create one on the processor.
	staleScope := *scope

	gateway.On("CreateCustomer", ctx, mock.Anything).Return("cus_winner", nil).Once()
	gateway.On("CreateCustomer", ctx, mock.Anything).Return("cus_loser", nil).Once()

	winnerID, err := svc.EnsureExternalCustomer(ctx, scope, "a@example.com", "A")
	require.NoError(t, err)
	assert.Equal(t, "cus_winner", winnerID)

	loserID, err := svc.EnsureExternalCustomer(ctx, &staleScope, "a@example.com", "A")
	require.NoError(t, err)
	assert.Equal(t, "cus_winner", loserID, "loser must adopt the persisted id")

	sub, err := subRepo.FindBySubject(ctx, scope.SubjectID, scope.Kind)
	require.NoError(t, err)
	assert.Equal(t, "cus_winner", sub.ExternalCustomerID)

	gateway.AssertExpectations(t)
}

func TestEnsureExternalCustomerGatewayFailure(t *testing.T) {
	db := newTestDB(t)
	subRepo := repositories.NewSubscriptionRepository(db)
	gateway := new(mockGateway)
	svc := NewCustomerSyncService(subRepo, gateway)
	ctx := context.Background()

	scope := resolvePersonal(t, db)

	gateway.On("CreateCustomer", ctx, mock.Anything).
		Return("", assert.AnError).Once()

	_, err := svc.EnsureExternalCustomer(ctx, scope, "a@example.com", "A")
	require.Error(t, err)

	// Nothing persisted; a retry can succeed.
	sub, err := subRepo.FindBySubject(ctx, scope.SubjectID, scope.Kind)
	require.NoError(t, err)
	assert.Empty(t, sub.ExternalCustomerID)
}

func resolvePersonal(t *testing.T, db *gorm.DB) *BillingScope {
	t.Helper()
	scope, err := newScopeService(db).Resolve(context.Background(), uuid.New(), db_models.SubjectPersonal)
	require.NoError(t, err)
	return scope
}
