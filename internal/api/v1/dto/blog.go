package dto

import (
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
)

type BlogListResponseDTO struct {
	Posts []model.BlogPost `json:"posts"`
	Total int              `json:"total"`
}

type BlogPostResponseDTO struct {
	Post *model.BlogPost `json:"post"`
}

type BlogPostCreateDTO struct {
	Title       string     `json:"title" validate:"required,max=300"`
	Slug        string     `json:"slug,omitempty" validate:"max=300"`
	Excerpt     string     `json:"excerpt,omitempty" validate:"max=1000"`
	Content     string     `json:"content"`
	Author      string     `json:"author,omitempty" validate:"max=200"`
	CoverImage  string     `json:"coverImage,omitempty" validate:"omitempty,max=2048"`
	Tags        []string   `json:"tags,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

type BlogPostUpdateDTO struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=300"`
	Slug        *string    `json:"slug,omitempty" validate:"omitempty,max=300"`
	Excerpt     *string    `json:"excerpt,omitempty" validate:"omitempty,max=1000"`
	Content     *string    `json:"content,omitempty"`
	Author      *string    `json:"author,omitempty" validate:"omitempty,max=200"`
	CoverImage  *string    `json:"coverImage,omitempty" validate:"omitempty,max=2048"`
	Tags        []string   `json:"tags,omitempty"`
	Published   *bool      `json:"published,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}
