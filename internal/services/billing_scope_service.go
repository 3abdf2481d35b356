package services

import (
	"context"

	"github.com/google/uuid"

	"paperbase/internal/models/db_models"
	"paperbase/internal/plans"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

// BillingScope is the resolved, per-request view of the billing subject an
// action applies to. Derived from the Subscription row plus membership; never
// persisted on its own.
type BillingScope struct {
	Kind                   db_models.SubjectKind
	SubjectID              uuid.UUID
	OrganizationID         *uuid.UUID
	Role                   db_models.OrgRole
	SubscriptionRowID      uuid.UUID
	Plan                   plans.ID
	Status                 db_models.SubscriptionStatus
	ExternalCustomerID     string
	ExternalSubscriptionID string
}

type BillingScopeServiceInterface interface {
	// Resolve gates billing-affecting operations: for organization scope the
	// actor must be owner or admin of their active organization.
	Resolve(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind) (*BillingScope, error)
	// ResolveForUsage resolves the same scope for quota checks, where plain
	// members still consume the organization's budget.
	ResolveForUsage(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind) (*BillingScope, error)
}

type BillingScopeService struct {
	membershipRepo   repositories.IMembershipRepository
	subscriptionRepo repositories.ISubscriptionRepository
}

func NewBillingScopeService(
	membershipRepo repositories.IMembershipRepository,
	subscriptionRepo repositories.ISubscriptionRepository,
) BillingScopeServiceInterface {
	return &BillingScopeService{
		membershipRepo:   membershipRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (s *BillingScopeService) Resolve(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind) (*BillingScope, error) {
	return s.resolve(ctx, actorID, kind, true)
}

func (s *BillingScopeService) ResolveForUsage(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind) (*BillingScope, error) {
	return s.resolve(ctx, actorID, kind, false)
}

func (s *BillingScopeService) resolve(ctx context.Context, actorID uuid.UUID, kind db_models.SubjectKind, billingAction bool) (*BillingScope, error) {
	if kind != db_models.SubjectOrganization {
		return s.personalScope(ctx, actorID)
	}

	orgID, err := s.membershipRepo.GetActiveOrganization(ctx, actorID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if orgID == nil {
		return nil, &utils.AuthorizationError{Reason: "no active organization"}
	}

	role, err := s.membershipRepo.GetRole(ctx, actorID, *orgID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if role == "" {
		return nil, &utils.AuthorizationError{Reason: "not a member of the active organization"}
	}
	if billingAction && role == db_models.RoleMember {
		return nil, &utils.AuthorizationError{Reason: "insufficient role"}
	}

	sub, err := s.subscriptionRepo.EnsureForSubject(ctx, *orgID, db_models.SubjectOrganization)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &BillingScope{
		Kind:                   db_models.SubjectOrganization,
		SubjectID:              *orgID,
		OrganizationID:         orgID,
		Role:                   role,
		SubscriptionRowID:      sub.ID,
		Plan:                   sub.Plan,
		Status:                 sub.Status,
		ExternalCustomerID:     sub.ExternalCustomerID,
		ExternalSubscriptionID: sub.ExternalSubscriptionID,
	}, nil
}

func (s *BillingScopeService) personalScope(ctx context.Context, actorID uuid.UUID) (*BillingScope, error) {
	sub, err := s.subscriptionRepo.EnsureForSubject(ctx, actorID, db_models.SubjectPersonal)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &BillingScope{
		Kind:                   db_models.SubjectPersonal,
		SubjectID:              actorID,
		SubscriptionRowID:      sub.ID,
		Plan:                   sub.Plan,
		Status:                 sub.Status,
		ExternalCustomerID:     sub.ExternalCustomerID,
		ExternalSubscriptionID: sub.ExternalSubscriptionID,
	}, nil
}
