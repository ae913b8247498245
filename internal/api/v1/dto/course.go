package dto

import "github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

// CourseListResponseDTO is returned by the course list endpoint
type CourseListResponseDTO struct {
	Courses []model.Course `json:"courses"`
	Total   int64          `json:"total"`
}

// CourseResponseDTO wraps a single course
type CourseResponseDTO struct {
	Course *model.Course `json:"course"`
}

// CourseMutationResponseDTO is returned after create, update and delete
type CourseMutationResponseDTO struct {
	Message string        `json:"message"`
	Course  *model.Course `json:"course"`
}
