package response_models

type AccountLoginResponse struct {
	Token string `json:"token"`
	Plan  string `json:"plan"`
}
