package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"paperbase/internal/models/db_models"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

func seedEvent(t *testing.T, repo repositories.IWebhookEventRepository, id string, status db_models.WebhookEventStatus, receivedAt int64) {
	t.Helper()
	created, err := repo.InsertIfAbsent(context.Background(), &db_models.WebhookEvent{
		ID:         id,
		Type:       "customer.subscription.updated",
		Status:     status,
		ReceivedAt: receivedAt,
		Payload:    datatypes.JSON(`{"id":"` + id + `"}`),
	})
	require.NoError(t, err)
	require.True(t, created)
}

func TestListEventsFiltersAndOrders(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewWebhookEventRepository(db)
	svc := NewWebhookAdminService(repo)
	now := time.Now().Unix()

	seedEvent(t, repo, "evt_old", db_models.EventStatusProcessed, now-100)
	seedEvent(t, repo, "evt_new", db_models.EventStatusProcessed, now)
	seedEvent(t, repo, "evt_bad", db_models.EventStatusFailed, now-50)

	events, err := svc.ListEvents(context.Background(), "", "", 1, 50)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "evt_new", events[0].ID, "newest first")

	failed, err := svc.ListEvents(context.Background(), "failed", "", 1, 50)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "evt_bad", failed[0].ID)

	_, err = svc.ListEvents(context.Background(), "", "", 0, 50)
	assert.ErrorIs(t, err, utils.ErrInvalidPage)
}

func TestGetEventReturnsPayload(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewWebhookEventRepository(db)
	svc := NewWebhookAdminService(repo)

	seedEvent(t, repo, "evt_detail", db_models.EventStatusFailed, time.Now().Unix())
	require.NoError(t, repo.MarkFailed(context.Background(), "evt_detail", "price id does not map"))

	detail, err := svc.GetEvent(context.Background(), "evt_detail")
	require.NoError(t, err)
	assert.Equal(t, "evt_detail", detail.ID)
	assert.Equal(t, "failed", detail.Status)
	assert.Equal(t, "price id does not map", detail.ErrorMessage)
	assert.JSONEq(t, `{"id":"evt_detail"}`, string(detail.Payload))

	_, err = svc.GetEvent(context.Background(), "evt_missing")
	assert.ErrorIs(t, err, utils.ErrWebhookEventNotFound)
}
