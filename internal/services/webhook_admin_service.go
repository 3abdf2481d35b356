package services

import (
	"context"

	"paperbase/internal/models/db_models"
	"paperbase/internal/models/response_models"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

// WebhookAdminService is the operator triage surface: inspect failed events,
// then trigger a processor-side resend, which is safe to reprocess.
type WebhookAdminServiceInterface interface {
	ListEvents(ctx context.Context, status, eventType string, page, pageSize int) ([]response_models.WebhookEventResponse, error)
	GetEvent(ctx context.Context, id string) (*response_models.WebhookEventDetailResponse, error)
}

type WebhookAdminService struct {
	eventRepo repositories.IWebhookEventRepository
}

func NewWebhookAdminService(eventRepo repositories.IWebhookEventRepository) WebhookAdminServiceInterface {
	return &WebhookAdminService{eventRepo: eventRepo}
}

func (s *WebhookAdminService) ListEvents(ctx context.Context, status, eventType string, page, pageSize int) ([]response_models.WebhookEventResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}

	events, err := s.eventRepo.List(ctx, status, eventType, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	result := make([]response_models.WebhookEventResponse, 0, len(events))
	for i := range events {
		result = append(result, toEventResponse(&events[i]))
	}
	return result, nil
}

func (s *WebhookAdminService) GetEvent(ctx context.Context, id string) (*response_models.WebhookEventDetailResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if event == nil {
		return nil, utils.ErrWebhookEventNotFound
	}

	return &response_models.WebhookEventDetailResponse{
		WebhookEventResponse: toEventResponse(event),
		Payload:              event.Payload,
	}, nil
}

func toEventResponse(event *db_models.WebhookEvent) response_models.WebhookEventResponse {
	resp := response_models.WebhookEventResponse{
		ID:         event.ID,
		Type:       event.Type,
		Livemode:   event.Livemode,
		Status:     string(event.Status),
		ReceivedAt: utils.FormatRFC3339(utils.FromUnixSeconds(event.ReceivedAt)),
	}
	if event.ProcessedAt != nil {
		resp.ProcessedAt = utils.FormatRFC3339(utils.FromUnixSeconds(*event.ProcessedAt))
	}
	if event.ErrorMessage != nil {
		resp.ErrorMessage = *event.ErrorMessage
	}
	return resp
}
