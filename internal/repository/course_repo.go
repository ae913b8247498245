package repository

import (
	"context"
	"regexp"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/database"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	// ListCourses returns one page of matching courses, newest first, and the
	// total number of matches.
	ListCourses(ctx context.Context, f model.CourseFilter) ([]model.Course, int64, error)
	GetCourseByID(ctx context.Context, id primitive.ObjectID) (*model.Course, error)
	GetCoursesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Course, error)
	GetCoursesByInstructor(ctx context.Context, instructor string) ([]model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	// UpdateCourse sets the given fields and returns the updated course, or
	// nil if it does not exist.
	UpdateCourse(ctx context.Context, id primitive.ObjectID, update model.CourseUpdate) (*model.Course, error)
	// DeleteCourse removes a course and returns it, or nil if it does not exist.
	DeleteCourse(ctx context.Context, id primitive.ObjectID) (*model.Course, error)
}

type courseRepo struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(db *mongo.Database, logger zerolog.Logger) CourseRepository {
	return &courseRepo{
		coll:   db.Collection(database.CoursesCollection),
		logger: logger.With().Str("repository", "CourseRepo").Logger(),
	}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// BuildCourseFilter turns list parameters into a query document. Each
// parameter constrains only its own dimension; unset parameters match all.
func BuildCourseFilter(f model.CourseFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.CourseCategory != "" {
		filter["courseCategory"] = f.CourseCategory
	}
	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}
	if f.Trending != nil {
		filter["trending"] = *f.Trending
	}
	if f.Level != "" {
		filter["level"] = f.Level
	}
	if f.Mode != "" {
		filter["mode"] = f.Mode
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"category": pattern},
			bson.M{"tags": pattern},
		}
	}
	return filter
}

func (r *courseRepo) ListCourses(ctx context.Context, f model.CourseFilter) ([]model.Course, int64, error) {
	filter := BuildCourseFilter(f)
	r.logger.Debug().Interface("filter", filter).Int64("limit", f.Limit).Int64("skip", f.Skip).Msg("Listing courses")

	opts := options.Find().SetSort(newestFirst)
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	courses := []model.Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, 0, err
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepo) GetCourseByID(ctx context.Context, id primitive.ObjectID) (*model.Course, error) {
	return findOne[model.Course](ctx, r.coll, byID(id))
}

func (r *courseRepo) GetCoursesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Course, error) {
	courses := []model.Course{}
	if len(ids) == 0 {
		return courses, nil
	}
	return findAll[model.Course](ctx, r.coll, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetSort(newestFirst))
}

func (r *courseRepo) GetCoursesByInstructor(ctx context.Context, instructor string) ([]model.Course, error) {
	return findAll[model.Course](ctx, r.coll, bson.M{"instructor": instructor}, options.Find().SetSort(newestFirst))
}

// CreateCourse assigns the ID and timestamps and inserts the course
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	return insert(ctx, r.coll, c)
}

func (r *courseRepo) UpdateCourse(ctx context.Context, id primitive.ObjectID, update model.CourseUpdate) (*model.Course, error) {
	return setFields[model.Course](ctx, r.coll, byID(id), update)
}

func (r *courseRepo) DeleteCourse(ctx context.Context, id primitive.ObjectID) (*model.Course, error) {
	return deleteOne[model.Course](ctx, r.coll, byID(id))
}
