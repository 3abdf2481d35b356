package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"paperbase/internal/models/db_models"
	"paperbase/internal/plans"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

func newScopeService(db *gorm.DB) BillingScopeServiceInterface {
	return NewBillingScopeService(
		repositories.NewMembershipRepository(db),
		repositories.NewSubscriptionRepository(db))
}

func seedMember(t *testing.T, db *gorm.DB, orgID uuid.UUID, role db_models.OrgRole) uuid.UUID {
	t.Helper()
	account := db_models.Account{
		Name:                 "member",
		Email:                uuid.NewString() + "@example.com",
		ActiveOrganizationID: &orgID,
	}
	require.NoError(t, db.Create(&account).Error)
	require.NoError(t, db.Create(&db_models.OrganizationMember{
		OrganizationID: orgID,
		AccountID:      account.ID,
		Role:           role,
	}).Error)
	return account.ID
}

func TestResolvePersonalLazilyCreatesFreeSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := newScopeService(db)
	actorID := uuid.New()

	scope, err := svc.Resolve(context.Background(), actorID, db_models.SubjectPersonal)
	require.NoError(t, err)
	assert.Equal(t, db_models.SubjectPersonal, scope.Kind)
	assert.Equal(t, actorID, scope.SubjectID)
	assert.Equal(t, plans.Free, scope.Plan)
	assert.Equal(t, db_models.SubStatusActive, scope.Status)

	// A second resolve reuses the same row.
	again, err := svc.Resolve(context.Background(), actorID, db_models.SubjectPersonal)
	require.NoError(t, err)
	assert.Equal(t, scope.SubscriptionRowID, again.SubscriptionRowID)

	var count int64
	require.NoError(t, db.Model(&db_models.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResolveOrganizationRequiresElevatedRole(t *testing.T) {
	db := newTestDB(t)
	svc := newScopeService(db)
	ctx := context.Background()

	org := db_models.Organization{Name: "acme"}
	require.NoError(t, db.Create(&org).Error)

	tests := []struct {
		name    string
		role    db_models.OrgRole
		allowed bool
	}{
		{name: "owner", role: db_models.RoleOwner, allowed: true},
		{name: "admin", role: db_models.RoleAdmin, allowed: true},
		{name: "member", role: db_models.RoleMember, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actorID := seedMember(t, db, org.ID, tt.role)

			scope, err := svc.Resolve(ctx, actorID, db_models.SubjectOrganization)
			if !tt.allowed {
				var authzErr *utils.AuthorizationError
				require.ErrorAs(t, err, &authzErr)
				assert.Equal(t, "insufficient role", authzErr.Reason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, org.ID, scope.SubjectID)
			assert.Equal(t, tt.role, scope.Role)
		})
	}
}

func TestResolveForUsageAllowsPlainMembers(t *testing.T) {
	db := newTestDB(t)
	svc := newScopeService(db)

	org := db_models.Organization{Name: "acme"}
	require.NoError(t, db.Create(&org).Error)
	actorID := seedMember(t, db, org.ID, db_models.RoleMember)

	scope, err := svc.ResolveForUsage(context.Background(), actorID, db_models.SubjectOrganization)
	require.NoError(t, err)
	assert.Equal(t, db_models.SubjectOrganization, scope.Kind)
	assert.Equal(t, org.ID, scope.SubjectID)
}

func TestResolveOrganizationWithoutActiveOrg(t *testing.T) {
	db := newTestDB(t)
	svc := newScopeService(db)

	account := db_models.Account{Name: "solo", Email: "solo@example.com"}
	require.NoError(t, db.Create(&account).Error)

	_, err := svc.Resolve(context.Background(), account.ID, db_models.SubjectOrganization)
	var authzErr *utils.AuthorizationError
	require.ErrorAs(t, err, &authzErr)
	assert.Equal(t, "no active organization", authzErr.Reason)
}

func TestResolveOrganizationNonMemberDenied(t *testing.T) {
	db := newTestDB(t)
	svc := newScopeService(db)

	org := db_models.Organization{Name: "acme"}
	require.NoError(t, db.Create(&org).Error)

	// Active organization set but no membership row, as after a removal.
	account := db_models.Account{
		Name:                 "ghost",
		Email:                "ghost@example.com",
		ActiveOrganizationID: &org.ID,
	}
	require.NoError(t, db.Create(&account).Error)

	_, err := svc.ResolveForUsage(context.Background(), account.ID, db_models.SubjectOrganization)
	var authzErr *utils.AuthorizationError
	require.ErrorAs(t, err, &authzErr)
	assert.Equal(t, "not a member of the active organization", authzErr.Reason)
}

func TestResolveReflectsUpgradedPlan(t *testing.T) {
	db := newTestDB(t)
	svc := newScopeService(db)
	actorID := uuid.New()
	ctx := context.Background()

	first, err := svc.Resolve(ctx, actorID, db_models.SubjectPersonal)
	require.NoError(t, err)

	require.NoError(t, db.Model(&db_models.Subscription{}).
		Where("id = ?", first.SubscriptionRowID).
		Update("plan", plans.Pro).Error)

	scope, err := svc.Resolve(ctx, actorID, db_models.SubjectPersonal)
	require.NoError(t, err)
	assert.Equal(t, plans.Pro, scope.Plan)
}
