package dto

// ErrorResponse HTTP error body. Details carries field-level reasons for validation failures only.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// MessageResponse simple acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
