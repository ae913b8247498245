package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeadKind identifies which public form produced a lead.
type LeadKind string

const (
	LeadKindContact      LeadKind = "lead"
	LeadKindScheduleCall LeadKind = "scheduleCall"
	LeadKindJoinProject  LeadKind = "joinProject"
)

const LeadStatusNew = "new"

// Lead is a captured form submission.
type Lead struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Kind            LeadKind           `bson:"kind" json:"kind"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Company         string             `bson:"company,omitempty" json:"company,omitempty"`
	Service         string             `bson:"service,omitempty" json:"service,omitempty"`
	Message         string             `bson:"message,omitempty" json:"message,omitempty"`
	PreferredDate   string             `bson:"preferredDate,omitempty" json:"preferredDate,omitempty"`
	PreferredTime   string             `bson:"preferredTime,omitempty" json:"preferredTime,omitempty"`
	ProjectInterest string             `bson:"projectInterest,omitempty" json:"projectInterest,omitempty"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
