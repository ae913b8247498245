package repository

import (
	"context"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/database"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BlogRepository interface {
	ListPosts(ctx context.Context, publishedOnly bool) ([]model.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	// CreatePost returns ErrDuplicate when the slug is taken.
	CreatePost(ctx context.Context, p *model.BlogPost) error
	UpdatePost(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*model.BlogPost, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) (*model.BlogPost, error)
}

type blogRepo struct {
	coll *mongo.Collection
}

func NewBlogRepo(db *mongo.Database) BlogRepository {
	return &blogRepo{coll: db.Collection(database.BlogsCollection)}
}

func (r *blogRepo) ListPosts(ctx context.Context, publishedOnly bool) ([]model.BlogPost, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["published"] = true
	}
	posts, err := findAll[model.BlogPost](ctx, r.coll, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Source = model.BlogSourceDB
	}
	return posts, nil
}

func (r *blogRepo) GetPostBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	p, err := findOne[model.BlogPost](ctx, r.coll, bson.M{"slug": slug})
	if p != nil {
		p.Source = model.BlogSourceDB
	}
	return p, err
}

func (r *blogRepo) CreatePost(ctx context.Context, p *model.BlogPost) error {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Source = model.BlogSourceDB
	return insert(ctx, r.coll, p)
}

func (r *blogRepo) UpdatePost(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*model.BlogPost, error) {
	p, err := setFields[model.BlogPost](ctx, r.coll, byID(id), fields)
	if p != nil {
		p.Source = model.BlogSourceDB
	}
	return p, err
}

func (r *blogRepo) DeletePost(ctx context.Context, id primitive.ObjectID) (*model.BlogPost, error) {
	return deleteOne[model.BlogPost](ctx, r.coll, byID(id))
}
