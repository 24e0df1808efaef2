package dto

// ErrorResponse is the uniform error body for the webhook surface.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
