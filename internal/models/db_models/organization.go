package db_models

import "github.com/google/uuid"

type OrgRole string

const (
	RoleOwner  OrgRole = "owner"
	RoleAdmin  OrgRole = "admin"
	RoleMember OrgRole = "member"
)

type Organization struct {
	BaseModel
	Name string

	Members []OrganizationMember
}

type OrganizationMember struct {
	BaseModel
	OrganizationID uuid.UUID `gorm:"index;uniqueIndex:idx_org_member"`
	AccountID      uuid.UUID `gorm:"index;uniqueIndex:idx_org_member"`
	Role           OrgRole   `gorm:"size:16"`

	Organization Organization `gorm:"foreignKey:OrganizationID"`
	Account      Account      `gorm:"foreignKey:AccountID"`
}
