package response_models

// LimitValue renders a quota ceiling; Unlimited=true means no ceiling and
// Value is meaningless.
type LimitValue struct {
	Unlimited bool  `json:"unlimited"`
	Value     int64 `json:"value,omitempty"`
}

type PlanResponse struct {
	ID              string     `json:"id"`
	Seats           LimitValue `json:"seats"`
	Documents       LimitValue `json:"documents"`
	StorageMB       LimitValue `json:"storage_mb"`
	AICallsPerMonth LimitValue `json:"ai_calls_per_month"`
}
