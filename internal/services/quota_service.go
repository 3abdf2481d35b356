package services

import (
	"context"

	"paperbase/internal/models/response_models"
	"paperbase/internal/plans"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

const bytesPerMB = 1024 * 1024

type QuotaServiceInterface interface {
	// CheckDocumentCreation is a soft limit: a live count, not a reservation.
	// A small overshoot under concurrent creations is tolerated.
	CheckDocumentCreation(ctx context.Context, scope *BillingScope) error
	// CheckStorage compares actual stored content size plus additionalMB
	// against the plan's ceiling. Also soft.
	CheckStorage(ctx context.Context, scope *BillingScope, additionalMB int64) error
	// ConsumeAICalls is the one hard gate: check-and-debit as a single
	// conditional update. Callers must reserve the whole unit of work up
	// front; nothing is debited on denial.
	ConsumeAICalls(ctx context.Context, scope *BillingScope, n int64) error
	CurrentUsage(ctx context.Context, scope *BillingScope) (*response_models.UsageResponse, error)
}

type QuotaService struct {
	documentRepo repositories.IDocumentRepository
	usageRepo    repositories.IUsageRepository
}

func NewQuotaService(
	documentRepo repositories.IDocumentRepository,
	usageRepo repositories.IUsageRepository,
) QuotaServiceInterface {
	return &QuotaService{
		documentRepo: documentRepo,
		usageRepo:    usageRepo,
	}
}

func (s *QuotaService) CheckDocumentCreation(ctx context.Context, scope *BillingScope) error {
	limit := plans.LimitsFor(scope.Plan).Documents
	if limit.Unlimited {
		return nil
	}

	count, err := s.documentRepo.CountForSubject(ctx, scope.SubjectID, scope.Kind)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !limit.Allows(count, 1) {
		return &utils.QuotaExceededError{Resource: "documents", Current: count, Limit: limit.Value}
	}
	return nil
}

func (s *QuotaService) CheckStorage(ctx context.Context, scope *BillingScope, additionalMB int64) error {
	limit := plans.LimitsFor(scope.Plan).StorageMB
	if limit.Unlimited {
		return nil
	}

	usedBytes, err := s.documentRepo.SumSizeBytes(ctx, scope.SubjectID, scope.Kind)
	if err != nil {
		return utils.ErrDatabaseError
	}
	usedMB := (usedBytes + bytesPerMB - 1) / bytesPerMB
	if !limit.Allows(usedMB, additionalMB) {
		return &utils.QuotaExceededError{Resource: "storage", Current: usedMB, Limit: limit.Value}
	}
	return nil
}

func (s *QuotaService) ConsumeAICalls(ctx context.Context, scope *BillingScope, n int64) error {
	limit := plans.LimitsFor(scope.Plan).AICallsPerMonth
	periodKey := utils.CurrentPeriodKey()

	consumed, allowed, err := s.usageRepo.ConsumeAICalls(
		ctx, scope.SubjectID, scope.Kind, periodKey, n, limit.Value, limit.Unlimited)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !allowed {
		return &utils.QuotaExceededError{Resource: "ai_calls", Current: consumed, Limit: limit.Value}
	}
	return nil
}

func (s *QuotaService) CurrentUsage(ctx context.Context, scope *BillingScope) (*response_models.UsageResponse, error) {
	limits := plans.LimitsFor(scope.Plan)
	periodKey := utils.CurrentPeriodKey()

	docCount, err := s.documentRepo.CountForSubject(ctx, scope.SubjectID, scope.Kind)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	usedBytes, err := s.documentRepo.SumSizeBytes(ctx, scope.SubjectID, scope.Kind)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	consumed, err := s.usageRepo.CallsConsumed(ctx, scope.SubjectID, scope.Kind, periodKey)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.UsageResponse{
		Plan:            string(scope.Plan),
		PeriodKey:       periodKey,
		Documents:       docCount,
		DocumentLimit:   limitValue(limits.Documents),
		StorageMB:       (usedBytes + bytesPerMB - 1) / bytesPerMB,
		StorageLimitMB:  limitValue(limits.StorageMB),
		AICallsConsumed: consumed,
		AICallLimit:     limitValue(limits.AICallsPerMonth),
	}, nil
}

func limitValue(l plans.Limit) response_models.LimitValue {
	return response_models.LimitValue{Unlimited: l.Unlimited, Value: l.Value}
}
