// Package repotest provides in-memory repositories for tests. Every method
// call is counted so tests can assert that no store access happened.
package repotest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInjected is returned by a repository whose Err field is set.
var ErrInjected = errors.New("injected store failure")

type counter struct {
	mu    sync.Mutex
	calls int
}

func (c *counter) hit() {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}

// Calls returns how many repository methods have been invoked.
func (c *counter) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// tick hands out strictly increasing timestamps so newest-first ordering is
// deterministic.
var (
	clockMu sync.Mutex
	clock   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

func tick() time.Time {
	clockMu.Lock()
	defer clockMu.Unlock()
	clock = clock.Add(time.Second)
	return clock
}

// apply copies update values onto a document through its bson form, the
// same way $set would.
func apply[T any](doc *T, fields map[string]any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range fields {
		m[k] = v
	}
	m["updatedAt"] = tick()
	raw, err = bson.Marshal(m)
	if err != nil {
		return err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return err
	}
	*doc = out
	return nil
}

type CourseRepo struct {
	counter
	Err     error
	courses map[primitive.ObjectID]model.Course
}

var _ repository.CourseRepository = (*CourseRepo)(nil)

func NewCourseRepo(seed ...model.Course) *CourseRepo {
	r := &CourseRepo{courses: map[primitive.ObjectID]model.Course{}}
	for _, c := range seed {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = tick()
			c.UpdatedAt = c.CreatedAt
		}
		r.courses[c.ID] = c
	}
	return r
}

func (r *CourseRepo) sorted(keep func(model.Course) bool) []model.Course {
	out := []model.Course{}
	for _, c := range r.courses {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *CourseRepo) ListCourses(_ context.Context, f model.CourseFilter) ([]model.Course, int64, error) {
	r.hit()
	if r.Err != nil {
		return nil, 0, r.Err
	}
	all := r.sorted(func(c model.Course) bool { return MatchesCourseFilter(c, f) })
	total := int64(len(all))
	if f.Skip > 0 {
		if f.Skip >= total {
			return []model.Course{}, total, nil
		}
		all = all[f.Skip:]
	}
	if f.Limit > 0 && int64(len(all)) > f.Limit {
		all = all[:f.Limit]
	}
	return all, total, nil
}

// MatchesCourseFilter mirrors repository.BuildCourseFilter for in-memory data.
func MatchesCourseFilter(c model.Course, f model.CourseFilter) bool {
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.CourseCategory != "" && c.CourseCategory != f.CourseCategory {
		return false
	}
	if f.Featured != nil && c.Featured != *f.Featured {
		return false
	}
	if f.Trending != nil && c.Trending != *f.Trending {
		return false
	}
	if f.Level != "" && c.Level != f.Level {
		return false
	}
	if f.Mode != "" && c.Mode != f.Mode {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		hay := append([]string{c.Title, c.Description, c.Category}, c.Tags...)
		found := false
		for _, h := range hay {
			if strings.Contains(strings.ToLower(h), q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *CourseRepo) GetCourseByID(_ context.Context, id primitive.ObjectID) (*model.Course, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CourseRepo) GetCoursesByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.Course, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	want := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return r.sorted(func(c model.Course) bool { return want[c.ID] }), nil
}

func (r *CourseRepo) GetCoursesByInstructor(_ context.Context, instructor string) ([]model.Course, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.sorted(func(c model.Course) bool { return c.Instructor == instructor }), nil
}

func (r *CourseRepo) CreateCourse(_ context.Context, c *model.Course) error {
	r.hit()
	if r.Err != nil {
		return r.Err
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt = tick()
	c.UpdatedAt = c.CreatedAt
	r.courses[c.ID] = *c
	return nil
}

func (r *CourseRepo) UpdateCourse(_ context.Context, id primitive.ObjectID, update model.CourseUpdate) (*model.Course, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	if err := apply(&c, update); err != nil {
		return nil, err
	}
	r.courses[id] = c
	return &c, nil
}

func (r *CourseRepo) DeleteCourse(_ context.Context, id primitive.ObjectID) (*model.Course, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	delete(r.courses, id)
	return &c, nil
}

type LeadRepo struct {
	counter
	// Errs fails individual kinds.
	Errs  map[model.LeadKind]error
	leads map[primitive.ObjectID]model.Lead
}

var _ repository.LeadRepository = (*LeadRepo)(nil)

func NewLeadRepo(seed ...model.Lead) *LeadRepo {
	r := &LeadRepo{Errs: map[model.LeadKind]error{}, leads: map[primitive.ObjectID]model.Lead{}}
	for _, l := range seed {
		if l.ID.IsZero() {
			l.ID = primitive.NewObjectID()
		}
		if l.CreatedAt.IsZero() {
			l.CreatedAt = tick()
		}
		r.leads[l.ID] = l
	}
	return r
}

func (r *LeadRepo) CreateLead(_ context.Context, l *model.Lead) error {
	r.hit()
	if err := r.Errs[l.Kind]; err != nil {
		return err
	}
	l.ID = primitive.NewObjectID()
	l.CreatedAt = tick()
	l.UpdatedAt = l.CreatedAt
	r.leads[l.ID] = *l
	return nil
}

func (r *LeadRepo) ListLeads(_ context.Context, kind model.LeadKind) ([]model.Lead, error) {
	r.hit()
	if err := r.Errs[kind]; err != nil {
		return nil, err
	}
	out := []model.Lead{}
	for _, l := range r.leads {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *LeadRepo) UpdateLeadStatus(_ context.Context, kind model.LeadKind, id primitive.ObjectID, status string) (*model.Lead, error) {
	r.hit()
	if err := r.Errs[kind]; err != nil {
		return nil, err
	}
	l, ok := r.leads[id]
	if !ok || l.Kind != kind {
		return nil, nil
	}
	l.Status = status
	l.UpdatedAt = tick()
	r.leads[id] = l
	return &l, nil
}

func (r *LeadRepo) DeleteLead(_ context.Context, kind model.LeadKind, id primitive.ObjectID) (*model.Lead, error) {
	r.hit()
	if err := r.Errs[kind]; err != nil {
		return nil, err
	}
	l, ok := r.leads[id]
	if !ok || l.Kind != kind {
		return nil, nil
	}
	delete(r.leads, id)
	return &l, nil
}

type UserRepo struct {
	counter
	Err   error
	users map[primitive.ObjectID]model.User
}

var _ repository.UserRepository = (*UserRepo)(nil)

func NewUserRepo(seed ...model.User) *UserRepo {
	r := &UserRepo{users: map[primitive.ObjectID]model.User{}}
	for _, u := range seed {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = tick()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *UserRepo) CreateUser(_ context.Context, u *model.User) error {
	r.hit()
	if r.Err != nil {
		return r.Err
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	if u.EnrolledCourses == nil {
		u.EnrolledCourses = []string{}
	}
	u.CreatedAt = tick()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ListUsersByRole(_ context.Context, role model.Role) ([]model.User, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []model.User{}
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *UserRepo) UpdateUser(_ context.Context, id primitive.ObjectID, role model.Role, fields map[string]any) (*model.User, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.users[id]
	if !ok || u.Role != role {
		return nil, nil
	}
	if err := apply(&u, fields); err != nil {
		return nil, err
	}
	r.users[id] = u
	return &u, nil
}

func (r *UserRepo) DeleteUser(_ context.Context, id primitive.ObjectID, role model.Role) (*model.User, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.users[id]
	if !ok || u.Role != role {
		return nil, nil
	}
	delete(r.users, id)
	return &u, nil
}

type BlogRepo struct {
	counter
	Err   error
	posts map[primitive.ObjectID]model.BlogPost
}

var _ repository.BlogRepository = (*BlogRepo)(nil)

func NewBlogRepo(seed ...model.BlogPost) *BlogRepo {
	r := &BlogRepo{posts: map[primitive.ObjectID]model.BlogPost{}}
	for _, p := range seed {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = tick()
		}
		p.Source = model.BlogSourceDB
		r.posts[p.ID] = p
	}
	return r
}

func (r *BlogRepo) ListPosts(_ context.Context, publishedOnly bool) ([]model.BlogPost, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []model.BlogPost{}
	for _, p := range r.posts {
		if !publishedOnly || p.Published {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *BlogRepo) GetPostBySlug(_ context.Context, slug string) (*model.BlogPost, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, p := range r.posts {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *BlogRepo) CreatePost(_ context.Context, p *model.BlogPost) error {
	r.hit()
	if r.Err != nil {
		return r.Err
	}
	for _, existing := range r.posts {
		if existing.Slug == p.Slug {
			return repository.ErrDuplicate
		}
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = tick()
	p.UpdatedAt = p.CreatedAt
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Source = model.BlogSourceDB
	r.posts[p.ID] = *p
	return nil
}

func (r *BlogRepo) UpdatePost(_ context.Context, id primitive.ObjectID, fields map[string]any) (*model.BlogPost, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	if err := apply(&p, fields); err != nil {
		return nil, err
	}
	p.Source = model.BlogSourceDB
	r.posts[id] = p
	return &p, nil
}

func (r *BlogRepo) DeletePost(_ context.Context, id primitive.ObjectID) (*model.BlogPost, error) {
	r.hit()
	if r.Err != nil {
		return nil, r.Err
	}
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	delete(r.posts, id)
	return &p, nil
}
