package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/database"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LeadRepository stores form submissions, one collection per kind.
type LeadRepository interface {
	CreateLead(ctx context.Context, l *model.Lead) error
	ListLeads(ctx context.Context, kind model.LeadKind) ([]model.Lead, error)
	UpdateLeadStatus(ctx context.Context, kind model.LeadKind, id primitive.ObjectID, status string) (*model.Lead, error)
	DeleteLead(ctx context.Context, kind model.LeadKind, id primitive.ObjectID) (*model.Lead, error)
}

type leadRepo struct {
	db *mongo.Database
}

func NewLeadRepo(db *mongo.Database) LeadRepository {
	return &leadRepo{db: db}
}

func (r *leadRepo) collection(kind model.LeadKind) (*mongo.Collection, error) {
	switch kind {
	case model.LeadKindContact:
		return r.db.Collection(database.LeadsCollection), nil
	case model.LeadKindScheduleCall:
		return r.db.Collection(database.ScheduleCallCollection), nil
	case model.LeadKindJoinProject:
		return r.db.Collection(database.JoinProjectCollection), nil
	default:
		return nil, fmt.Errorf("unknown lead kind %q", kind)
	}
}

func (r *leadRepo) CreateLead(ctx context.Context, l *model.Lead) error {
	coll, err := r.collection(l.Kind)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	l.ID = primitive.NewObjectID()
	l.CreatedAt = now
	l.UpdatedAt = now
	return insert(ctx, coll, l)
}

func (r *leadRepo) ListLeads(ctx context.Context, kind model.LeadKind) ([]model.Lead, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	return findAll[model.Lead](ctx, coll, bson.M{}, options.Find().SetSort(newestFirst))
}

func (r *leadRepo) UpdateLeadStatus(ctx context.Context, kind model.LeadKind, id primitive.ObjectID, status string) (*model.Lead, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	return setFields[model.Lead](ctx, coll, byID(id), map[string]any{"status": status})
}

func (r *leadRepo) DeleteLead(ctx context.Context, kind model.LeadKind, id primitive.ObjectID) (*model.Lead, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	return deleteOne[model.Lead](ctx, coll, byID(id))
}
