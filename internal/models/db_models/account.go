package db_models

import "github.com/google/uuid"

type Account struct {
	BaseModel
	Name         string
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string

	// The organization whose workspace the account currently acts in.
	// Billing actions with scope=organization resolve against it.
	ActiveOrganizationID *uuid.UUID `gorm:"index"`

	Documents []Document `gorm:"foreignKey:OwnerID"`
}
