package service

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID is returned for identifiers that are not valid ObjectIDs.
// No store call is made for such identifiers.
var ErrInvalidID = errors.New("invalid id")

// ParseID validates a hex ObjectID string.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}
