package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"paperbase/internal/services"
	"paperbase/pkg/utils"
)

type WebhookController struct {
	webhookService services.WebhookServiceInterface
}

func NewWebhookController(webhookService services.WebhookServiceInterface) *WebhookController {
	return &WebhookController{
		webhookService: webhookService,
	}
}

// HandleWebhook godoc
// @Summary Receive payment processor events
// @Description Verify the signature and reconcile the event. The processor
// retries on any non-2xx response, so transient failures return 5xx and
// duplicates return 200.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /billing/webhook [post]
func (w *WebhookController) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Unable to read request body")
		return
	}

	result, err := w.webhookService.HandleEvent(
		c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidSignature):
			utils.RespondError(c, http.StatusBadRequest, "Invalid signature")
		case errors.Is(err, utils.ErrEventInFlight):
			// Another delivery holds the event. Non-2xx so the processor
			// redelivers after the holder finishes.
			utils.RespondError(c, http.StatusConflict, "Event is being processed")
		default:
			utils.HandleServiceError(c, err)
		}
		return
	}

	utils.RespondSuccess(c, result, "Event "+result.Status)
}
