package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps the billing error taxonomy onto HTTP statuses.
// Quota denials carry the current/limit numbers so the client can render
// an upgrade prompt.
func HandleServiceError(c *gin.Context, err error) {
	var authzErr *AuthorizationError
	var quotaErr *QuotaExceededError
	var cfgErr *ConfigurationError

	switch {
	case errors.As(err, &authzErr):
		RespondError(c, http.StatusForbidden, authzErr.Reason)
	case errors.As(err, &quotaErr):
		c.JSON(http.StatusPaymentRequired, APIResponse{
			Status:  "error",
			Code:    http.StatusPaymentRequired,
			Message: quotaErr.Error(),
			TraceID: traceID(c),
			Data: gin.H{
				"resource": quotaErr.Resource,
				"current":  quotaErr.Current,
				"limit":    quotaErr.Limit,
			},
		})
	case errors.As(err, &cfgErr):
		log.Printf("Configuration error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Billing is not configured")
	case errors.Is(err, ErrAccountNotFound):
		RespondError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrEmailAlreadyUsed):
		RespondError(c, http.StatusConflict, "Email already in use")
	case errors.Is(err, ErrSubscriptionNotFound):
		RespondError(c, http.StatusNotFound, "Subscription not found")
	case errors.Is(err, ErrWebhookEventNotFound):
		RespondError(c, http.StatusNotFound, "Webhook event not found")
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
