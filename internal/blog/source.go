// Package blog reads blog posts written as markdown files with YAML
// frontmatter.
package blog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// FrontMatter is the metadata block at the top of a post file.
type FrontMatter struct {
	Title      string    `yaml:"title"`
	Slug       string    `yaml:"slug,omitempty"`
	Excerpt    string    `yaml:"excerpt,omitempty"`
	Author     string    `yaml:"author,omitempty"`
	Date       time.Time `yaml:"date"`
	CoverImage string    `yaml:"coverImage,omitempty"`
	Tags       []string  `yaml:"tags,omitempty"`
	Draft      bool      `yaml:"draft,omitempty"`
}

// Source loads posts from *.md files in a directory. Files are read on every
// call so edits show up without a restart.
type Source struct {
	dir string
	md  goldmark.Markdown
}

func NewSource(dir string) *Source {
	return &Source{
		dir: dir,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Dir returns the directory posts are read from.
func (s *Source) Dir() string {
	return s.dir
}

// AllPosts returns every non-draft post, newest first. A missing directory
// yields no posts.
func (s *Source) AllPosts() ([]model.BlogPost, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.BlogPost{}, nil
		}
		return nil, fmt.Errorf("reading blog dir: %w", err)
	}

	posts := []model.BlogPost{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		p, err := s.load(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if p != nil {
			posts = append(posts, *p)
		}
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].SortTime().After(posts[j].SortTime())
	})
	return posts, nil
}

// PostBySlug returns the post with the given slug, or nil if there is none.
func (s *Source) PostBySlug(slug string) (*model.BlogPost, error) {
	posts, err := s.AllPosts()
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Slug == slug {
			return &posts[i], nil
		}
	}
	return nil, nil
}

// Render converts markdown to HTML.
func (s *Source) Render(content string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

// load parses one file. Drafts return nil.
func (s *Source) load(path string) (*model.BlogPost, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	meta, body, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if meta.Draft {
		return nil, nil
	}

	html, err := s.Render(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	slug := meta.Slug
	if slug == "" {
		slug = strings.TrimSuffix(filepath.Base(path), ".md")
	}
	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}

	p := &model.BlogPost{
		Title:       meta.Title,
		Slug:        slug,
		Excerpt:     meta.Excerpt,
		Content:     body,
		ContentHTML: html,
		Author:      meta.Author,
		CoverImage:  meta.CoverImage,
		Tags:        tags,
		Published:   true,
		Source:      model.BlogSourceMarkdown,
	}
	if !meta.Date.IsZero() {
		d := meta.Date.UTC()
		p.PublishedAt = &d
		p.CreatedAt = d
		p.UpdatedAt = d
	}
	return p, nil
}

func parse(r io.Reader) (FrontMatter, string, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return meta, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	return meta, strings.TrimSpace(string(body)), nil
}
