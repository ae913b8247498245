package dto

// ErrorResponseDTO is the body of every error response
type ErrorResponseDTO struct {
	Error string `json:"error"`
}

type FieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponseDTO carries field-level validation detail
type ValidationErrorResponseDTO struct {
	Error   string          `json:"error"`
	Details []FieldErrorDTO `json:"details"`
}

type MessageResponseDTO struct {
	Message string `json:"message"`
}
