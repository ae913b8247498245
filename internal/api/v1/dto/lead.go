package dto

import "github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

// LeadCreateDTO is the body of the public lead forms. Which optional fields
// matter depends on the form.
type LeadCreateDTO struct {
	Name            string `json:"name" validate:"required,max=200"`
	Email           string `json:"email" validate:"required,email,max=320"`
	Phone           string `json:"phone,omitempty" validate:"max=50"`
	Company         string `json:"company,omitempty" validate:"max=200"`
	Service         string `json:"service,omitempty" validate:"max=200"`
	Message         string `json:"message,omitempty" validate:"max=5000"`
	PreferredDate   string `json:"preferredDate,omitempty" validate:"max=50"`
	PreferredTime   string `json:"preferredTime,omitempty" validate:"max=50"`
	ProjectInterest string `json:"projectInterest,omitempty" validate:"max=200"`
}

type LeadResponseDTO struct {
	Message string      `json:"message"`
	Lead    *model.Lead `json:"lead"`
}

// LeadStatusUpdateDTO is used by the back office to move a lead along
type LeadStatusUpdateDTO struct {
	Status string `json:"status" validate:"required"`
}
