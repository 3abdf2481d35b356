package response_models

import "gorm.io/datatypes"

type WebhookEventResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Livemode     bool   `json:"livemode"`
	Status       string `json:"status"`
	ReceivedAt   string `json:"received_at"`
	ProcessedAt  string `json:"processed_at,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type WebhookEventDetailResponse struct {
	WebhookEventResponse
	Payload datatypes.JSON `json:"payload"`
}
