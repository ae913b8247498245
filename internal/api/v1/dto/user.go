package dto

import "github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

// RegisterDTO is used for self sign-up
type RegisterDTO struct {
	Name      string `json:"name" validate:"required,max=200"`
	Email     string `json:"email" validate:"required,email,max=320"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=student instructor"`
	Phone     string `json:"phone,omitempty" validate:"max=50"`
	Expertise string `json:"expertise,omitempty" validate:"max=200"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponseDTO struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type UserResponseDTO struct {
	User *model.User `json:"user"`
}

type DashboardResponseDTO struct {
	User    *model.User    `json:"user"`
	Courses []model.Course `json:"courses"`
}

// AccountCreateDTO is used by the back office to add students and instructors
type AccountCreateDTO struct {
	Name            string   `json:"name" validate:"required,max=200"`
	Email           string   `json:"email" validate:"required,email,max=320"`
	Password        string   `json:"password" validate:"required,min=8,max=72"`
	Phone           string   `json:"phone,omitempty" validate:"max=50"`
	Expertise       string   `json:"expertise,omitempty" validate:"max=200"`
	EnrolledCourses []string `json:"enrolledCourses,omitempty" validate:"omitempty,dive,mongodb"`
}

// AccountUpdateDTO carries the account fields the back office may change
type AccountUpdateDTO struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone           *string  `json:"phone,omitempty" validate:"omitempty,max=50"`
	Expertise       *string  `json:"expertise,omitempty" validate:"omitempty,max=200"`
	Blocked         *bool    `json:"blocked,omitempty"`
	EnrolledCourses []string `json:"enrolledCourses,omitempty" validate:"omitempty,dive,mongodb"`
}
