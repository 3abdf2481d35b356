package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"paperbase/internal/models/request_models"
	"paperbase/internal/services"
	"paperbase/pkg/utils"
)

type DocumentController struct {
	documentService services.DocumentServiceInterface
}

func NewDocumentController(documentService services.DocumentServiceInterface) *DocumentController {
	return &DocumentController{
		documentService: documentService,
	}
}

// CreateDocument godoc
// @Summary Create a document
// @Description Create a document in the personal or organization scope,
// subject to document and storage quotas. Enrichment runs best-effort.
// @Tags Documents
// @Accept json
// @Produce json
// @Param request body request_models.CreateDocumentRequest true "Document payload"
// @Success 200 {object} utils.APIResponse
// @Failure 402 {object} utils.APIResponse
// @Security BearerAuth
// @Router /documents [post]
func (d *DocumentController) CreateDocument(c *gin.Context) {
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req request_models.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	doc, err := d.documentService.CreateDocument(c.Request.Context(), actorID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, doc, "Document created successfully")
}
