package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"paperbase/internal/services"
	"paperbase/pkg/utils"
)

type AdminController struct {
	adminService services.WebhookAdminServiceInterface
}

func NewAdminController(adminService services.WebhookAdminServiceInterface) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

// ListWebhookEvents godoc
// @Summary List received webhook events
// @Description Fetch webhook events for triage, newest first
// @Tags Admin
// @Produce json
// @Param status query string false "Filter by status (processing, processed, failed, ignored)"
// @Param type query string false "Filter by event type"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(50)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/webhooks [get]
func (a *AdminController) ListWebhookEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	events, err := a.adminService.ListEvents(
		c.Request.Context(), c.Query("status"), c.Query("type"), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, events, "Webhook events fetched successfully")
}

// GetWebhookEvent godoc
// @Summary Get a webhook event with its payload
// @Tags Admin
// @Produce json
// @Param id path string true "Processor event id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/webhooks/{id} [get]
func (a *AdminController) GetWebhookEvent(c *gin.Context) {
	event, err := a.adminService.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, event, "Webhook event fetched successfully")
}
