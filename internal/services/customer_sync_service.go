package services

import (
	"context"
	"log"

	"paperbase/internal/payments"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

type CustomerSyncServiceInterface interface {
	// EnsureExternalCustomer returns the processor customer id for a scope,
	// creating the customer on first use. Idempotent and race-tolerant: a
	// concurrent caller that loses the conditional write gets the winning id
	// back instead of an error.
	EnsureExternalCustomer(ctx context.Context, scope *BillingScope, email, name string) (string, error)
}

type CustomerSyncService struct {
	subscriptionRepo repositories.ISubscriptionRepository
	gateway          payments.Gateway
}

func NewCustomerSyncService(
	subscriptionRepo repositories.ISubscriptionRepository,
	gateway payments.Gateway,
) CustomerSyncServiceInterface {
	return &CustomerSyncService{
		subscriptionRepo: subscriptionRepo,
		gateway:          gateway,
	}
}

func (s *CustomerSyncService) EnsureExternalCustomer(ctx context.Context, scope *BillingScope, email, name string) (string, error) {
	if scope.ExternalCustomerID != "" {
		return scope.ExternalCustomerID, nil
	}

	// Tag the customer with the internal subject so the reconciler can match
	// events back to a Subscription row even when the customer-id lookup
	// comes up empty.
	customerID, err := s.gateway.CreateCustomer(ctx, payments.CustomerParams{
		Email:       email,
		Name:        name,
		SubjectKind: string(scope.Kind),
		SubjectID:   scope.SubjectID.String(),
	})
	if err != nil {
		return "", err
	}

	won, err := s.subscriptionRepo.SetExternalCustomerIDIfAbsent(ctx, scope.SubscriptionRowID, customerID)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if !won {
		// A concurrent request persisted a customer first; ours is orphaned
		// on the processor side but harmless. Return the winning id.
		sub, err := s.subscriptionRepo.FindBySubject(ctx, scope.SubjectID, scope.Kind)
		if err != nil || sub == nil {
			return "", utils.ErrDatabaseError
		}
		log.Printf("customer sync: lost create race for subject %s, using %s", scope.SubjectID, sub.ExternalCustomerID)
		return sub.ExternalCustomerID, nil
	}

	scope.ExternalCustomerID = customerID
	return customerID, nil
}
