package request_models

// Scope is "personal" or "organization"; organization requires owner/admin
// role in the actor's active organization.
type CreateCheckoutRequest struct {
	Scope string `json:"scope" binding:"required,oneof=personal organization"`
	Plan  string `json:"plan" binding:"required,oneof=pro team enterprise"`
}

type CreatePortalRequest struct {
	Scope     string `json:"scope" binding:"required,oneof=personal organization"`
	ReturnURL string `json:"return_url"`
}

type CreateSetupIntentRequest struct {
	Scope string `json:"scope" binding:"required,oneof=personal organization"`
}
