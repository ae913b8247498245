package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleSuperAdmin Role = "superadmin"
)

// User is a student, instructor or super admin account.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	PasswordHash    string             `bson:"passwordHash" json:"-"`
	Role            Role               `bson:"role" json:"role"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Expertise       string             `bson:"expertise,omitempty" json:"expertise,omitempty"`
	EnrolledCourses []string           `bson:"enrolledCourses" json:"enrolledCourses"`
	Blocked         bool               `bson:"blocked" json:"blocked"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
