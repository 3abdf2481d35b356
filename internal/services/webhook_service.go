package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
	"gorm.io/datatypes"

	"paperbase/internal/models/db_models"
	"paperbase/internal/payments"
	"paperbase/internal/plans"
	"paperbase/internal/repositories"
	"paperbase/pkg/utils"
)

// WebhookResult tells the controller how to acknowledge the delivery.
type WebhookResult struct {
	EventID string
	Type    string
	Status  string // "processed", "ignored", "duplicate"
}

type WebhookServiceInterface interface {
	HandleEvent(ctx context.Context, payload []byte, sigHeader string) (*WebhookResult, error)
}

type WebhookService struct {
	eventRepo        repositories.IWebhookEventRepository
	subscriptionRepo repositories.ISubscriptionRepository
	registry         *plans.Registry
	gateway          payments.Gateway
	cfg              payments.Config
}

func NewWebhookService(
	eventRepo repositories.IWebhookEventRepository,
	subscriptionRepo repositories.ISubscriptionRepository,
	registry *plans.Registry,
	gateway payments.Gateway,
	cfg payments.Config,
) WebhookServiceInterface {
	return &WebhookService{
		eventRepo:        eventRepo,
		subscriptionRepo: subscriptionRepo,
		registry:         registry,
		gateway:          gateway,
		cfg:              cfg,
	}
}

func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, sigHeader string) (*WebhookResult, error) {
	if s.cfg.WebhookSecret == "" {
		return nil, &utils.ConfigurationError{Missing: "STRIPE_WEBHOOK_SECRET"}
	}

	// Signature verification is the authentication for this endpoint. An
	// unverifiable payload is not a legitimate event and is never persisted.
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, s.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		log.Printf("webhook: signature verification failed: %v", err)
		return nil, utils.ErrInvalidSignature
	}

	now := time.Now().Unix()
	row := &db_models.WebhookEvent{
		ID:         event.ID,
		Type:       string(event.Type),
		Livemode:   event.Livemode,
		Status:     db_models.EventStatusProcessing,
		ReceivedAt: now,
		ClaimedAt:  now, // the insert itself is the first claim
		Payload:    datatypes.JSON(payload),
	}

	created, err := s.eventRepo.InsertIfAbsent(ctx, row)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if !created {
		// Duplicate delivery or an operator-triggered resend: reprocess the
		// existing row, never create a second audit entry.
		existing, err := s.eventRepo.FindByID(ctx, event.ID)
		if err != nil || existing == nil {
			return nil, utils.ErrDatabaseError
		}
		if existing.Status == db_models.EventStatusProcessed || existing.Status == db_models.EventStatusIgnored {
			return &WebhookResult{EventID: event.ID, Type: string(event.Type), Status: "duplicate"}, nil
		}
		claimed, err := s.eventRepo.ClaimForProcessing(ctx, event.ID)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		if !claimed {
			// Another worker holds this id; non-2xx so the processor retries.
			return nil, utils.ErrEventInFlight
		}
	}

	handled, err := s.apply(ctx, &event)
	if err != nil {
		if markErr := s.eventRepo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
			log.Printf("webhook: failed to mark event %s failed: %v", event.ID, markErr)
		}
		return nil, &utils.ReconciliationError{EventID: event.ID, Err: err}
	}
	if !handled {
		if err := s.eventRepo.MarkIgnored(ctx, event.ID); err != nil {
			return nil, utils.ErrDatabaseError
		}
		return &WebhookResult{EventID: event.ID, Type: string(event.Type), Status: "ignored"}, nil
	}

	if err := s.eventRepo.MarkProcessed(ctx, event.ID); err != nil {
		return nil, utils.ErrDatabaseError
	}
	return &WebhookResult{EventID: event.ID, Type: string(event.Type), Status: "processed"}, nil
}

// apply dispatches one verified event. Every mutation is "set to latest known
// state", never a relative delta, so out-of-order and repeated deliveries are
// safe to apply. Returns handled=false for event types intentionally ignored.
func (s *WebhookService) apply(ctx context.Context, event *stripe.Event) (bool, error) {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return false, fmt.Errorf("decode checkout session: %w", err)
		}
		return true, s.applyCheckoutCompleted(ctx, &session)
	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return false, fmt.Errorf("decode subscription: %w", err)
		}
		return true, s.applySubscriptionUpdated(ctx, &sub)
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return false, fmt.Errorf("decode subscription: %w", err)
		}
		return true, s.applySubscriptionDeleted(ctx, &sub)
	case "invoice.payment_succeeded", "invoice.payment_failed", "customer.subscription.trial_will_end":
		// Audit/notification only. Payment-failure downgrades are driven by
		// the processor's own subscription-status transitions, not inferred
		// here, to avoid racing its dunning logic.
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err == nil && invoice.Customer != nil {
			log.Printf("webhook: %s for customer %s", event.Type, invoice.Customer.ID)
		}
		return true, nil
	default:
		return false, nil
	}
}

func (s *WebhookService) applyCheckoutCompleted(ctx context.Context, session *stripe.CheckoutSession) error {
	sub, err := s.resolveSubjectRow(ctx, session.Metadata)
	if err != nil {
		return err
	}

	plan := plans.ID(session.Metadata["plan"])
	if plan == "" {
		plan = plans.Pro
	}
	if !plans.Valid(plan) {
		return fmt.Errorf("unknown plan %q in checkout metadata", plan)
	}

	fields := map[string]interface{}{
		"plan": plan,
	}
	if session.Customer != nil {
		fields["external_customer_id"] = session.Customer.ID
	}
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		fields["billing_email"] = session.CustomerDetails.Email
	}

	// The session payload can be stale relative to a fast-following update
	// event; re-fetch the authoritative status and period end.
	if session.Subscription != nil && session.Subscription.ID != "" {
		info, err := s.gateway.GetSubscription(ctx, session.Subscription.ID)
		if err != nil {
			return fmt.Errorf("fetch authoritative subscription: %w", err)
		}
		fields["external_subscription_id"] = info.ID
		fields["status"] = mapSubscriptionStatus(info.Status)
		if info.CurrentPeriodEnd > 0 {
			fields["current_period_end"] = info.CurrentPeriodEnd
		}
	} else {
		fields["status"] = db_models.SubStatusActive
	}

	return s.subscriptionRepo.UpdateProcessorFields(ctx, sub.ID, fields)
}

func (s *WebhookService) applySubscriptionUpdated(ctx context.Context, stripeSub *stripe.Subscription) error {
	plan, err := s.resolvePlan(stripeSub)
	if err != nil {
		return err
	}

	sub, err := s.rowForSubscription(ctx, stripeSub)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{
		"plan":                     plan,
		"status":                   mapSubscriptionStatus(string(stripeSub.Status)),
		"external_subscription_id": stripeSub.ID,
	}
	if stripeSub.CurrentPeriodEnd > 0 {
		fields["current_period_end"] = stripeSub.CurrentPeriodEnd
	}
	return s.subscriptionRepo.UpdateProcessorFields(ctx, sub.ID, fields)
}

func (s *WebhookService) applySubscriptionDeleted(ctx context.Context, stripeSub *stripe.Subscription) error {
	sub, err := s.rowForSubscription(ctx, stripeSub)
	if err != nil {
		return err
	}

	// Re-applying the downgrade to an already-canceled row is a no-op.
	if sub.Plan == plans.Free && sub.Status == db_models.SubStatusCanceled {
		return nil
	}

	return s.subscriptionRepo.UpdateProcessorFields(ctx, sub.ID, map[string]interface{}{
		"plan":                     plans.Free,
		"status":                   db_models.SubStatusCanceled,
		"external_subscription_id": "",
		"current_period_end":       nil,
	})
}

// resolvePlan reads the plan from subscription metadata, falling back to the
// registry's price-id mapping. An unmappable price id is a reconciliation
// failure, never a silent default to the lowest tier.
func (s *WebhookService) resolvePlan(stripeSub *stripe.Subscription) (plans.ID, error) {
	if meta := stripeSub.Metadata["plan"]; meta != "" {
		plan := plans.ID(meta)
		if !plans.Valid(plan) {
			return "", fmt.Errorf("unknown plan %q in subscription metadata", meta)
		}
		return plan, nil
	}

	var priceID string
	if stripeSub.Items != nil && len(stripeSub.Items.Data) > 0 && stripeSub.Items.Data[0].Price != nil {
		priceID = stripeSub.Items.Data[0].Price.ID
	}
	if priceID == "" {
		return "", fmt.Errorf("subscription %s carries neither plan metadata nor a price id", stripeSub.ID)
	}
	plan, ok := s.registry.PlanForPrice(priceID)
	if !ok {
		return "", fmt.Errorf("price id %s does not map to a known plan", priceID)
	}
	return plan, nil
}

// rowForSubscription finds the internal Subscription row by external customer
// id, falling back to the subject identifiers stamped into the subscription
// metadata at checkout time.
func (s *WebhookService) rowForSubscription(ctx context.Context, stripeSub *stripe.Subscription) (*db_models.Subscription, error) {
	if stripeSub.Customer != nil && stripeSub.Customer.ID != "" {
		sub, err := s.subscriptionRepo.FindByExternalCustomerID(ctx, stripeSub.Customer.ID)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			return sub, nil
		}
	}
	return s.resolveSubjectRow(ctx, stripeSub.Metadata)
}

func (s *WebhookService) resolveSubjectRow(ctx context.Context, metadata map[string]string) (*db_models.Subscription, error) {
	if orgID := metadata["organization_id"]; orgID != "" {
		id, err := uuid.Parse(orgID)
		if err != nil {
			return nil, fmt.Errorf("bad organization_id in metadata: %w", err)
		}
		return s.subscriptionRepo.EnsureForSubject(ctx, id, db_models.SubjectOrganization)
	}
	if userID := metadata["user_id"]; userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			return nil, fmt.Errorf("bad user_id in metadata: %w", err)
		}
		return s.subscriptionRepo.EnsureForSubject(ctx, id, db_models.SubjectPersonal)
	}
	if subjectID := metadata["subject_id"]; subjectID != "" {
		id, err := uuid.Parse(subjectID)
		if err != nil {
			return nil, fmt.Errorf("bad subject_id in metadata: %w", err)
		}
		kind := db_models.SubjectKind(metadata["subject_kind"])
		if kind != db_models.SubjectOrganization {
			kind = db_models.SubjectPersonal
		}
		return s.subscriptionRepo.EnsureForSubject(ctx, id, kind)
	}
	return nil, fmt.Errorf("event metadata carries no subject identifiers")
}

func mapSubscriptionStatus(status string) db_models.SubscriptionStatus {
	switch db_models.SubscriptionStatus(status) {
	case db_models.SubStatusTrialing, db_models.SubStatusActive,
		db_models.SubStatusPastDue, db_models.SubStatusCanceled:
		return db_models.SubscriptionStatus(status)
	default:
		return db_models.SubStatusActive
	}
}
