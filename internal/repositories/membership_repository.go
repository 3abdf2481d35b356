package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"paperbase/internal/models/db_models"
)

// IMembershipRepository is the read-only view of the organization membership
// store the billing scope resolver depends on.
type IMembershipRepository interface {
	GetActiveOrganization(ctx context.Context, accountID uuid.UUID) (*uuid.UUID, error)
	GetRole(ctx context.Context, accountID, orgID uuid.UUID) (db_models.OrgRole, error)
}

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) IMembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) GetActiveOrganization(ctx context.Context, accountID uuid.UUID) (*uuid.UUID, error) {
	var account db_models.Account
	err := r.db.WithContext(ctx).First(&account, "id = ?", accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account.ActiveOrganizationID, nil
}

// GetRole returns "" when the account is not a member of the organization.
func (r *MembershipRepository) GetRole(ctx context.Context, accountID, orgID uuid.UUID) (db_models.OrgRole, error) {
	var member db_models.OrganizationMember
	err := r.db.WithContext(ctx).
		First(&member, "account_id = ? AND organization_id = ?", accountID, orgID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return member.Role, nil
}
