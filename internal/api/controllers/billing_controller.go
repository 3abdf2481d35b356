package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"paperbase/internal/models/db_models"
	"paperbase/internal/models/request_models"
	"paperbase/internal/plans"
	"paperbase/internal/services"
	"paperbase/pkg/utils"
)

type BillingController struct {
	billingService services.BillingServiceInterface
	scopeService   services.BillingScopeServiceInterface
	quotaService   services.QuotaServiceInterface
}

func NewBillingController(
	billingService services.BillingServiceInterface,
	scopeService services.BillingScopeServiceInterface,
	quotaService services.QuotaServiceInterface,
) *BillingController {
	return &BillingController{
		billingService: billingService,
		scopeService:   scopeService,
		quotaService:   quotaService,
	}
}

// GetPlans godoc
// @Summary List subscription plans
// @Description Fetch the catalog of plans and their limits
// @Tags Billing
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /plans [get]
func (b *BillingController) GetPlans(c *gin.Context) {
	utils.RespondSuccess(c, b.billingService.GetPlans(), "Plans fetched successfully")
}

// GetSubscription godoc
// @Summary Get the current subscription
// @Description Fetch the subscription for the personal or organization scope
// @Tags Billing
// @Produce json
// @Param scope query string false "personal or organization" default(personal)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/subscription [get]
func (b *BillingController) GetSubscription(c *gin.Context) {
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	sub, err := b.billingService.GetSubscription(c.Request.Context(), actorID, scopeFromQuery(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, sub, "Subscription fetched successfully")
}

// GetUsage godoc
// @Summary Get current usage against plan limits
// @Description Fetch document count, storage and AI-call consumption for the scope
// @Tags Billing
// @Produce json
// @Param scope query string false "personal or organization" default(personal)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/usage [get]
func (b *BillingController) GetUsage(c *gin.Context) {
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	scope, err := b.scopeService.ResolveForUsage(c.Request.Context(), actorID, scopeFromQuery(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	usage, err := b.quotaService.CurrentUsage(c.Request.Context(), scope)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, usage, "Usage fetched successfully")
}

// CreateCheckoutSession godoc
// @Summary Create a checkout session for a paid plan
// @Description Start a hosted checkout for the personal or organization scope
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body request_models.CreateCheckoutRequest true "Checkout payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/checkout [post]
func (b *BillingController) CreateCheckoutSession(c *gin.Context) {
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req request_models.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	session, err := b.billingService.CreateCheckoutSession(
		c.Request.Context(), actorID, db_models.SubjectKind(req.Scope), plans.ID(req.Plan))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, session, "Checkout session created successfully")
}

// CreatePortalSession godoc
// @Summary Create a billing portal session
// @Description Open the hosted billing portal for managing the subscription
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body request_models.CreatePortalRequest true "Portal payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/portal [post]
func (b *BillingController) CreatePortalSession(c *gin.Context) {
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req request_models.CreatePortalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	session, err := b.billingService.CreatePortalSession(
		c.Request.Context(), actorID, db_models.SubjectKind(req.Scope), req.ReturnURL)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, session, "Portal session created successfully")
}

// CreateSetupIntent godoc
// @Summary Create a setup intent for saving a payment method
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body request_models.CreateSetupIntentRequest true "Setup intent payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/setup-intent [post]
func (b *BillingController) CreateSetupIntent(c *gin.Context) {
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req request_models.CreateSetupIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	intent, err := b.billingService.CreateSetupIntent(
		c.Request.Context(), actorID, db_models.SubjectKind(req.Scope))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, intent, "Setup intent created successfully")
}

// ListPaymentMethods godoc
// @Summary List saved payment methods
// @Tags Billing
// @Produce json
// @Param scope query string false "personal or organization" default(personal)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/payment-methods [get]
func (b *BillingController) ListPaymentMethods(c *gin.Context) {
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	methods, err := b.billingService.ListPaymentMethods(c.Request.Context(), actorID, scopeFromQuery(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, methods, "Payment methods fetched successfully")
}

// ListInvoices godoc
// @Summary List invoices for the billing scope
// @Tags Billing
// @Produce json
// @Param scope query string false "personal or organization" default(personal)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /billing/invoices [get]
func (b *BillingController) ListInvoices(c *gin.Context) {
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	invoices, err := b.billingService.ListInvoices(c.Request.Context(), actorID, scopeFromQuery(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, invoices, "Invoices fetched successfully")
}

func actorFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("user_id")
	if raw == "" {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is required")
		return uuid.Nil, false
	}

	actorID, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "user_id is malformed")
		return uuid.Nil, false
	}
	return actorID, true
}

func scopeFromQuery(c *gin.Context) db_models.SubjectKind {
	if c.DefaultQuery("scope", "personal") == "organization" {
		return db_models.SubjectOrganization
	}
	return db_models.SubjectPersonal
}
