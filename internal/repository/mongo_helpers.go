package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned when an insert or update violates a unique index.
var ErrDuplicate = errors.New("duplicate key")

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// findOne returns nil, nil when nothing matches.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var v T
	if err := coll.FindOne(ctx, filter).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// setFields applies $set with a fresh updatedAt and returns the updated
// document, or nil, nil when nothing matches.
func setFields[T any](ctx context.Context, coll *mongo.Collection, filter any, fields map[string]any) (*T, error) {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	set["updatedAt"] = time.Now().UTC()

	var v T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &v, nil
}

// deleteOne removes and returns the matching document, or nil, nil.
func deleteOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var v T
	if err := coll.FindOneAndDelete(ctx, filter).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func insert(ctx context.Context, coll *mongo.Collection, doc any) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func byID(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id}
}
