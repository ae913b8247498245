package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/repository"

	"github.com/rs/zerolog"
)

var (
	ErrPostNotFound = errors.New("blog post not found")
	ErrSlugTaken    = errors.New("slug already in use")
)

// PostSource is read access to file-based posts.
type PostSource interface {
	AllPosts() ([]model.BlogPost, error)
	PostBySlug(slug string) (*model.BlogPost, error)
	Render(content string) (string, error)
}

type BlogService interface {
	// ListPublished merges published stored posts with file posts, newest
	// first. A stored post hides a file post with the same slug.
	ListPublished(ctx context.Context) ([]model.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	// ListStored returns every stored post, drafts included.
	ListStored(ctx context.Context) ([]model.BlogPost, error)
	CreatePost(ctx context.Context, p *model.BlogPost) (*model.BlogPost, error)
	UpdatePost(ctx context.Context, id string, fields map[string]any) (*model.BlogPost, error)
	DeletePost(ctx context.Context, id string) (*model.BlogPost, error)
}

type blogService struct {
	repo   repository.BlogRepository
	source PostSource
	logger zerolog.Logger
}

func NewBlogService(repo repository.BlogRepository, source PostSource, logger zerolog.Logger) BlogService {
	return &blogService{
		repo:   repo,
		source: source,
		logger: logger.With().Str("service", "BlogService").Logger(),
	}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of other characters to '-'.
func Slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func (s *blogService) ListPublished(ctx context.Context) ([]model.BlogPost, error) {
	stored, err := s.repo.ListPosts(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("listing stored posts: %w", err)
	}
	files, err := s.source.AllPosts()
	if err != nil {
		// Stored posts are still served when the content dir is broken.
		s.logger.Error().Err(err).Msg("Failed to read markdown posts")
		files = nil
	}

	seen := make(map[string]bool, len(stored))
	posts := make([]model.BlogPost, 0, len(stored)+len(files))
	for _, p := range stored {
		seen[p.Slug] = true
		posts = append(posts, p)
	}
	for _, p := range files {
		if !seen[p.Slug] {
			posts = append(posts, p)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].SortTime().After(posts[j].SortTime())
	})
	return posts, nil
}

func (s *blogService) GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	p, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}
	if p != nil && p.Published {
		if html, err := s.source.Render(p.Content); err == nil {
			p.ContentHTML = html
		}
		return p, nil
	}

	p, err = s.source.PostBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("reading markdown post: %w", err)
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

func (s *blogService) ListStored(ctx context.Context) ([]model.BlogPost, error) {
	posts, err := s.repo.ListPosts(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing stored posts: %w", err)
	}
	return posts, nil
}

func (s *blogService) CreatePost(ctx context.Context, p *model.BlogPost) (*model.BlogPost, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, validationErrorf("title", "title is required")
	}
	if p.Slug == "" {
		p.Slug = p.Title
	}
	p.Slug = Slugify(p.Slug)
	if p.Slug == "" {
		return nil, validationErrorf("slug", "slug must contain letters or digits")
	}
	if p.Published && p.PublishedAt == nil {
		now := time.Now().UTC()
		p.PublishedAt = &now
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("creating post: %w", err)
	}
	s.logger.Info().Str("post_id", p.ID.Hex()).Str("slug", p.Slug).Msg("Blog post created")
	return p, nil
}

var blogUpdatableFields = map[string]bool{
	"title":       true,
	"slug":        true,
	"excerpt":     true,
	"content":     true,
	"author":      true,
	"coverImage":  true,
	"tags":        true,
	"published":   true,
	"publishedAt": true,
}

func (s *blogService) UpdatePost(ctx context.Context, id string, fields map[string]any) (*model.BlogPost, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	set := map[string]any{}
	for k, v := range fields {
		if blogUpdatableFields[k] {
			set[k] = v
		}
	}
	if title, ok := set["title"].(string); ok && strings.TrimSpace(title) == "" {
		return nil, validationErrorf("title", "title cannot be empty")
	}
	if slug, ok := set["slug"].(string); ok {
		slug = Slugify(slug)
		if slug == "" {
			return nil, validationErrorf("slug", "slug must contain letters or digits")
		}
		set["slug"] = slug
	}
	if len(set) == 0 {
		return nil, validationErrorf("", "no updatable fields supplied")
	}

	p, err := s.repo.UpdatePost(ctx, oid, set)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("updating post: %w", err)
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}

func (s *blogService) DeletePost(ctx context.Context, id string) (*model.BlogPost, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.DeletePost(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("deleting post: %w", err)
	}
	if p == nil {
		return nil, ErrPostNotFound
	}
	return p, nil
}
