package utils

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailAlreadyUsed     = errors.New("email already in use")
	ErrDatabaseError        = errors.New("database error")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrWebhookEventNotFound = errors.New("webhook event not found")
	ErrInvalidSignature     = errors.New("webhook signature verification failed")
	ErrEventInFlight        = errors.New("webhook event is already being processed")
	ErrInvalidPage          = errors.New("invalid page parameter")
)

// AuthorizationError means the actor is not allowed to act on the requested
// billing scope. Never retried.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "authorization failed: " + e.Reason
}

// QuotaExceededError carries the numbers the caller needs to render an
// "upgrade your plan" message.
type QuotaExceededError struct {
	Resource string // "documents", "storage", "ai_calls"
	Current  int64
	Limit    int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s quota exceeded: %d of %d used", e.Resource, e.Current, e.Limit)
}

// ConfigurationError indicates missing deployment configuration (e.g. Stripe
// credentials). The feature is disabled, not silently degraded.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return "missing configuration: " + e.Missing
}

// ReconciliationError wraps a failure while applying a webhook mutation. The
// event row is marked failed and the processor's own retry redelivers it.
type ReconciliationError struct {
	EventID string
	Err     error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed for event %s: %v", e.EventID, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }
