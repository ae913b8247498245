package model

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyllabusModule is a named unit of a course syllabus.
type SyllabusModule struct {
	Module string   `bson:"module" json:"module" yaml:"module"`
	Topics []string `bson:"topics" json:"topics" yaml:"topics"`
}

// Course is a catalog entry. ID and timestamps are owned by the store.
type Course struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Duration    string             `bson:"duration" json:"duration"`
	Category    string             `bson:"category" json:"category"`

	CourseCategory string  `bson:"courseCategory,omitempty" json:"courseCategory,omitempty"`
	Level          string  `bson:"level,omitempty" json:"level,omitempty"`
	Mode           string  `bson:"mode,omitempty" json:"mode,omitempty"`
	Price          string  `bson:"price,omitempty" json:"price,omitempty"`
	Image          string  `bson:"image,omitempty" json:"image,omitempty"`
	Instructor     string  `bson:"instructor,omitempty" json:"instructor,omitempty"`
	Featured       bool    `bson:"featured" json:"featured"`
	Trending       bool    `bson:"trending" json:"trending"`
	Rating         float64 `bson:"rating,omitempty" json:"rating,omitempty"`
	Students       int     `bson:"students,omitempty" json:"students,omitempty"`

	Syllabus   []SyllabusModule `bson:"syllabus" json:"syllabus"`
	Skills     []string         `bson:"skills" json:"skills"`
	Tags       []string         `bson:"tags" json:"tags"`
	Curriculum []string         `bson:"curriculum" json:"curriculum"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CourseFilter holds the optional list filters. Zero values do not constrain.
type CourseFilter struct {
	Category       string
	CourseCategory string
	Featured       *bool
	Trending       *bool
	Search         string
	Level          string
	Mode           string
	Limit          int64
	Skip           int64
}

// CoursePayload is a course as submitted by a client. Pointer fields are nil
// when absent. The list fields stay raw so malformed shapes can be coerced
// instead of failing the decode. It has no _id, createdAt or updatedAt: those
// are server-owned and dropped on decode.
type CoursePayload struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Duration    *string `json:"duration" validate:"omitempty,max=100"`
	Category    *string `json:"category" validate:"omitempty,max=100"`

	CourseCategory *string  `json:"courseCategory" validate:"omitempty,max=100"`
	Level          *string  `json:"level" validate:"omitempty,max=50"`
	Mode           *string  `json:"mode" validate:"omitempty,max=50"`
	Price          *string  `json:"price" validate:"omitempty,max=50"`
	Image          *string  `json:"image" validate:"omitempty,max=2048"`
	Instructor     *string  `json:"instructor" validate:"omitempty,max=200"`
	Featured       *bool    `json:"featured"`
	Trending       *bool    `json:"trending"`
	Rating         *float64 `json:"rating" validate:"omitempty,min=0,max=5"`
	Students       *int     `json:"students" validate:"omitempty,min=0"`

	Syllabus   json.RawMessage `json:"syllabus"`
	Skills     json.RawMessage `json:"skills"`
	Tags       json.RawMessage `json:"tags"`
	Curriculum json.RawMessage `json:"curriculum"`
}

// CourseUpdate maps stored field names to their new values.
type CourseUpdate map[string]any
