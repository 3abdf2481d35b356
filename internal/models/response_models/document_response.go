package response_models

type DocumentResponse struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	SizeBytes int64    `json:"size_bytes"`
	Summary   string   `json:"summary,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Enriched  bool     `json:"enriched"`
}
