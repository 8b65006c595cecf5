package dto

// ErrorResponse represents a generic error response body. Retryable is set
// on failures the caller may retry later, e.g. a closed market.
type ErrorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// MessageResponse is a minimal acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
