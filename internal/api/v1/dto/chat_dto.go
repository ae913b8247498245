package dto

type ChatMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required,max=8000"`
}

// ChatRequestDTO is the body of the chat stream endpoint
type ChatRequestDTO struct {
	Messages []ChatMessageDTO `json:"messages" validate:"required,min=1,max=50,dive"`
	Model    string           `json:"model,omitempty" validate:"max=100"`
}
