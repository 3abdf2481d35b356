package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"paperbase/internal/plans"
)

type SubjectKind string

const (
	SubjectPersonal     SubjectKind = "personal"
	SubjectOrganization SubjectKind = "organization"
)

type SubscriptionStatus string

const (
	SubStatusTrialing SubscriptionStatus = "trialing"
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusPastDue  SubscriptionStatus = "past_due"
	SubStatusCanceled SubscriptionStatus = "canceled"
)

// Subscription is the internal cache of the processor's billing truth: one
// row per personal account and one per organization, never deleted. The
// reconciler owns the processor-driven fields; the synchronizer writes
// ExternalCustomerID once on first creation. A canceled subscription is
// downgraded to the free plan in place.
type Subscription struct {
	BaseModel
	SubjectID   uuid.UUID   `gorm:"index;uniqueIndex:idx_billing_subject"`
	SubjectKind SubjectKind `gorm:"size:16;uniqueIndex:idx_billing_subject"`

	Plan   plans.ID           `gorm:"size:32"`
	Status SubscriptionStatus `gorm:"size:16;index"`

	ExternalCustomerID     string `gorm:"index"`
	ExternalSubscriptionID string `gorm:"index"`
	CurrentPeriodEnd       *int64
	BillingEmail           *string

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
