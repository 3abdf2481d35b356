package request_models

type CreateDocumentRequest struct {
	Scope   string `json:"scope" binding:"omitempty,oneof=personal organization"`
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}
