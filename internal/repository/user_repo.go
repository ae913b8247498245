package repository

import (
	"context"
	"strings"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/database"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	// CreateUser returns ErrDuplicate when the email is taken.
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsersByRole(ctx context.Context, role model.Role) ([]model.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, role model.Role, fields map[string]any) (*model.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID, role model.Role) (*model.User, error)
}

type userRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepository {
	return &userRepo{coll: db.Collection(database.UsersCollection)}
}

func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.EnrolledCourses == nil {
		u.EnrolledCourses = []string{}
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	return insert(ctx, r.coll, u)
}

func (r *userRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return findOne[model.User](ctx, r.coll, byID(id))
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, r.coll, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (r *userRepo) ListUsersByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	return findAll[model.User](ctx, r.coll, bson.M{"role": role}, options.Find().SetSort(newestFirst))
}

// UpdateUser only matches users holding role, so a view cannot edit
// accounts that belong to another view.
func (r *userRepo) UpdateUser(ctx context.Context, id primitive.ObjectID, role model.Role, fields map[string]any) (*model.User, error) {
	return setFields[model.User](ctx, r.coll, bson.M{"_id": id, "role": role}, fields)
}

func (r *userRepo) DeleteUser(ctx context.Context, id primitive.ObjectID, role model.Role) (*model.User, error) {
	return deleteOne[model.User](ctx, r.coll, bson.M{"_id": id, "role": role})
}
