package response_models

type CheckoutSessionResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

type PortalSessionResponse struct {
	PortalURL string `json:"portal_url"`
}

type SetupIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type PaymentMethodResponse struct {
	ID       string `json:"id"`
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int64  `json:"exp_month"`
	ExpYear  int64  `json:"exp_year"`
}

type InvoiceResponse struct {
	ID         string `json:"id"`
	Number     string `json:"number"`
	Status     string `json:"status"`
	AmountDue  int64  `json:"amount_due"`
	AmountPaid int64  `json:"amount_paid"`
	Currency   string `json:"currency"`
	CreatedAt  string `json:"created_at"`
	HostedURL  string `json:"hosted_url"`
}

type SubscriptionResponse struct {
	SubjectKind      string `json:"subject_kind"`
	SubjectID        string `json:"subject_id"`
	Plan             string `json:"plan"`
	Status           string `json:"status"`
	CurrentPeriodEnd string `json:"current_period_end,omitempty"`
	BillingEmail     string `json:"billing_email,omitempty"`
}

type UsageResponse struct {
	Plan            string     `json:"plan"`
	PeriodKey       string     `json:"period_key"`
	Documents       int64      `json:"documents"`
	DocumentLimit   LimitValue `json:"document_limit"`
	StorageMB       int64      `json:"storage_mb"`
	StorageLimitMB  LimitValue `json:"storage_limit_mb"`
	AICallsConsumed int64      `json:"ai_calls_consumed"`
	AICallLimit     LimitValue `json:"ai_call_limit"`
}
