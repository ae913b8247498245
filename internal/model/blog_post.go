package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogSource tells where a post was loaded from.
type BlogSource string

const (
	BlogSourceDB       BlogSource = "db"
	BlogSourceMarkdown BlogSource = "markdown"
)

// BlogPost is either a stored post or one parsed from a markdown file.
// Markdown posts have a zero ID.
type BlogPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"`
	Excerpt     string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	Content     string             `bson:"content" json:"content"`
	ContentHTML string             `bson:"-" json:"contentHtml,omitempty"`
	Author      string             `bson:"author,omitempty" json:"author,omitempty"`
	CoverImage  string             `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	Tags        []string           `bson:"tags" json:"tags"`
	Published   bool               `bson:"published" json:"published"`
	PublishedAt *time.Time         `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	Source      BlogSource         `bson:"-" json:"source"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SortTime is the time a post is ordered by in listings.
func (p *BlogPost) SortTime() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}
