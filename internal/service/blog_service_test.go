package service

import (
	"context"
	"testing"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/repository/repotest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	posts []model.BlogPost
}

func (s staticSource) AllPosts() ([]model.BlogPost, error) { return s.posts, nil }

func (s staticSource) PostBySlug(slug string) (*model.BlogPost, error) {
	for i := range s.posts {
		if s.posts[i].Slug == slug {
			return &s.posts[i], nil
		}
	}
	return nil, nil
}

func (s staticSource) Render(content string) (string, error) { return "<p>" + content + "</p>", nil }

func at(day int) *time.Time {
	t := time.Date(2030, 1, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "ml-101-intro", Slugify("  ML 101 -- Intro "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestListPublished_Merges(t *testing.T) {
	repo := repotest.NewBlogRepo(
		model.BlogPost{Title: "Stored", Slug: "shared", Published: true, PublishedAt: at(2)},
		model.BlogPost{Title: "Draft", Slug: "draft", Published: false},
	)
	src := staticSource{posts: []model.BlogPost{
		{Title: "File newer", Slug: "file-newer", PublishedAt: at(3), Source: model.BlogSourceMarkdown},
		{Title: "File shadowed", Slug: "shared", PublishedAt: at(5), Source: model.BlogSourceMarkdown},
	}}
	svc := NewBlogService(repo, src, zerolog.Nop())

	posts, err := svc.ListPublished(context.Background())
	require.NoError(t, err)

	titles := []string{}
	for _, p := range posts {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"File newer", "Stored"}, titles)
}

func TestGetBySlug(t *testing.T) {
	repo := repotest.NewBlogRepo(
		model.BlogPost{Title: "Stored", Slug: "stored", Content: "hi", Published: true},
		model.BlogPost{Title: "Draft", Slug: "file", Published: false},
	)
	src := staticSource{posts: []model.BlogPost{{Title: "From file", Slug: "file"}}}
	svc := NewBlogService(repo, src, zerolog.Nop())
	ctx := context.Background()

	p, err := svc.GetBySlug(ctx, "stored")
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", p.ContentHTML)

	p, err = svc.GetBySlug(ctx, "file")
	require.NoError(t, err)
	assert.Equal(t, "From file", p.Title)

	_, err = svc.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCreatePost(t *testing.T) {
	svc := NewBlogService(repotest.NewBlogRepo(), staticSource{}, zerolog.Nop())
	ctx := context.Background()

	p, err := svc.CreatePost(ctx, &model.BlogPost{Title: "Why RAG Works", Published: true})
	require.NoError(t, err)
	assert.Equal(t, "why-rag-works", p.Slug)
	assert.NotNil(t, p.PublishedAt)

	_, err = svc.CreatePost(ctx, &model.BlogPost{Title: "Why RAG works?"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	_, err = svc.CreatePost(ctx, &model.BlogPost{Title: "  "})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
