package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownView = errors.New("unknown view")

// View is one entity table of the super-admin back office.
type View string

const (
	ViewLeads         View = "leads"
	ViewScheduleCalls View = "scheduleCalls"
	ViewJoinProjects  View = "joinProjects"
	ViewStudents      View = "students"
	ViewInstructors   View = "instructors"
	ViewCourses       View = "courses"
	ViewBlogs         View = "blogs"
)

// Views lists every view in display order.
var Views = []View{ViewLeads, ViewScheduleCalls, ViewJoinProjects, ViewStudents, ViewInstructors, ViewCourses, ViewBlogs}

type viewMeta struct {
	label   string
	icon    string
	columns []string
}

var viewMetas = map[View]viewMeta{
	ViewLeads:         {"Leads", "mail", []string{"id", "name", "email", "phone", "company", "service", "message", "status", "createdAt"}},
	ViewScheduleCalls: {"Scheduled Calls", "phone", []string{"id", "name", "email", "phone", "preferredDate", "preferredTime", "status", "createdAt"}},
	ViewJoinProjects:  {"Project Requests", "briefcase", []string{"id", "name", "email", "projectInterest", "message", "status", "createdAt"}},
	ViewStudents:      {"Students", "graduation-cap", []string{"id", "name", "email", "phone", "enrolledCourses", "blocked", "createdAt"}},
	ViewInstructors:   {"Instructors", "user-check", []string{"id", "name", "email", "phone", "expertise", "blocked", "createdAt"}},
	ViewCourses:       {"Courses", "book-open", []string{"id", "title", "category", "level", "mode", "price", "instructor", "students", "featured", "trending", "createdAt"}},
	ViewBlogs:         {"Blog Posts", "file-text", []string{"id", "title", "slug", "author", "published", "publishedAt", "createdAt"}},
}

var leadViews = map[View]model.LeadKind{
	ViewLeads:         model.LeadKindContact,
	ViewScheduleCalls: model.LeadKindScheduleCall,
	ViewJoinProjects:  model.LeadKindJoinProject,
}

var userViews = map[View]model.Role{
	ViewStudents:    model.RoleStudent,
	ViewInstructors: model.RoleInstructor,
}

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	v := View(s)
	if _, ok := viewMetas[v]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
	return v, nil
}

// LeadKind returns the lead kind behind a lead view.
func (v View) LeadKind() (model.LeadKind, bool) {
	k, ok := leadViews[v]
	return k, ok
}

// Role returns the account role behind a user view.
func (v View) Role() (model.Role, bool) {
	r, ok := userViews[v]
	return r, ok
}

// Columns returns the fixed column layout of the view.
func (v View) Columns() []string {
	return viewMetas[v].columns
}

// Row is one table row, keyed by column.
type Row map[string]any

type StatCard struct {
	View  View   `json:"view"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Count int    `json:"count"`
}

// Overview holds every view that loaded. A view that failed has an entry in
// Errors and a zero-count stat card.
type Overview struct {
	Stats  []StatCard      `json:"stats"`
	Items  map[View][]Row  `json:"items"`
	Errors map[View]string `json:"errors"`
}

type DashboardService interface {
	ListView(ctx context.Context, view View) ([]Row, error)
	// DeleteRecord removes one record from the view's collection and
	// returns it.
	DeleteRecord(ctx context.Context, view View, id string) (any, error)
	// Overview loads every view concurrently. Failures are isolated per view.
	Overview(ctx context.Context) *Overview
}

type dashboardService struct {
	courses CourseService
	leads   LeadService
	users   UserService
	blogs   BlogService
	logger  zerolog.Logger
}

func NewDashboardService(courses CourseService, leads LeadService, users UserService, blogs BlogService, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		courses: courses,
		leads:   leads,
		users:   users,
		blogs:   blogs,
		logger:  logger.With().Str("service", "DashboardService").Logger(),
	}
}

func (s *dashboardService) ListView(ctx context.Context, view View) ([]Row, error) {
	if kind, ok := view.LeadKind(); ok {
		leads, err := s.leads.ListLeads(ctx, kind)
		if err != nil {
			return nil, err
		}
		return mapRows(leads, func(l model.Lead) Row { return leadRow(view, l) }), nil
	}
	if role, ok := view.Role(); ok {
		users, err := s.users.ListByRole(ctx, role)
		if err != nil {
			return nil, err
		}
		return mapRows(users, func(u model.User) Row { return userRow(view, u) }), nil
	}
	switch view {
	case ViewCourses:
		courses, _, err := s.courses.ListCourses(ctx, model.CourseFilter{})
		if err != nil {
			return nil, err
		}
		return mapRows(courses, courseRow), nil
	case ViewBlogs:
		posts, err := s.blogs.ListStored(ctx)
		if err != nil {
			return nil, err
		}
		return mapRows(posts, blogRow), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
}

func (s *dashboardService) DeleteRecord(ctx context.Context, view View, id string) (any, error) {
	if kind, ok := view.LeadKind(); ok {
		return s.leads.DeleteLead(ctx, kind, id)
	}
	if role, ok := view.Role(); ok {
		return s.users.DeleteAccount(ctx, role, id)
	}
	switch view {
	case ViewCourses:
		return s.courses.DeleteCourse(ctx, id)
	case ViewBlogs:
		return s.blogs.DeletePost(ctx, id)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
}

// maxConcurrentViews bounds the number of list queries in flight.
const maxConcurrentViews = 4

func (s *dashboardService) Overview(ctx context.Context) *Overview {
	results := make([][]Row, len(Views))
	errs := make([]error, len(Views))

	var g errgroup.Group
	g.SetLimit(maxConcurrentViews)
	for i, view := range Views {
		g.Go(func() error {
			results[i], errs[i] = s.ListView(ctx, view)
			return nil
		})
	}
	_ = g.Wait()

	out := &Overview{
		Stats:  make([]StatCard, 0, len(Views)),
		Items:  make(map[View][]Row, len(Views)),
		Errors: map[View]string{},
	}
	for i, view := range Views {
		meta := viewMetas[view]
		card := StatCard{View: view, Label: meta.label, Icon: meta.icon}
		if errs[i] != nil {
			s.logger.Error().Err(errs[i]).Str("view", string(view)).Msg("Failed to load dashboard view")
			out.Errors[view] = "Failed to load " + meta.label
		} else {
			card.Count = len(results[i])
			out.Items[view] = results[i]
		}
		out.Stats = append(out.Stats, card)
	}
	return out
}

func mapRows[T any](items []T, f func(T) Row) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, f(it))
	}
	return rows
}

func leadRow(view View, l model.Lead) Row {
	all := Row{
		"id":              l.ID.Hex(),
		"name":            l.Name,
		"email":           l.Email,
		"phone":           l.Phone,
		"company":         l.Company,
		"service":         l.Service,
		"message":         l.Message,
		"preferredDate":   l.PreferredDate,
		"preferredTime":   l.PreferredTime,
		"projectInterest": l.ProjectInterest,
		"status":          l.Status,
		"createdAt":       formatTime(l.CreatedAt),
	}
	return project(view, all)
}

func userRow(view View, u model.User) Row {
	all := Row{
		"id":              u.ID.Hex(),
		"name":            u.Name,
		"email":           u.Email,
		"phone":           u.Phone,
		"expertise":       u.Expertise,
		"enrolledCourses": len(u.EnrolledCourses),
		"blocked":         u.Blocked,
		"createdAt":       formatTime(u.CreatedAt),
	}
	return project(view, all)
}

func courseRow(c model.Course) Row {
	return Row{
		"id":         c.ID.Hex(),
		"title":      c.Title,
		"category":   c.Category,
		"level":      c.Level,
		"mode":       c.Mode,
		"price":      c.Price,
		"instructor": c.Instructor,
		"students":   c.Students,
		"featured":   c.Featured,
		"trending":   c.Trending,
		"createdAt":  formatTime(c.CreatedAt),
	}
}

func blogRow(p model.BlogPost) Row {
	publishedAt := ""
	if p.PublishedAt != nil {
		publishedAt = formatTime(*p.PublishedAt)
	}
	return Row{
		"id":          p.ID.Hex(),
		"title":       p.Title,
		"slug":        p.Slug,
		"author":      p.Author,
		"published":   p.Published,
		"publishedAt": publishedAt,
		"createdAt":   formatTime(p.CreatedAt),
	}
}

// project keeps only the view's columns.
func project(view View, all Row) Row {
	row := make(Row, len(view.Columns()))
	for _, col := range view.Columns() {
		row[col] = all[col]
	}
	return row
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
