package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/repository"

	"github.com/rs/zerolog"
)

var ErrCourseNotFound = errors.New("course not found")

// CourseService defines the interface for course operations
type CourseService interface {
	ListCourses(ctx context.Context, f model.CourseFilter) ([]model.Course, int64, error)
	// GetCourse retrieves a course by its ID
	GetCourse(ctx context.Context, id string) (*model.Course, error)
	CreateCourse(ctx context.Context, p *model.CoursePayload) (*model.Course, error)
	// UpdateCourse applies a full or partial update; both re-run normalization
	UpdateCourse(ctx context.Context, id string, p *model.CoursePayload) (*model.Course, error)
	// DeleteCourse deletes a course and returns the deleted record
	DeleteCourse(ctx context.Context, id string) (*model.Course, error)
}

type courseService struct {
	repo   repository.CourseRepository
	logger zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(repo repository.CourseRepository, logger zerolog.Logger) CourseService {
	return &courseService{
		repo:   repo,
		logger: logger.With().Str("service", "CourseService").Logger(),
	}
}

func (s *courseService) ListCourses(ctx context.Context, f model.CourseFilter) ([]model.Course, int64, error) {
	courses, total, err := s.repo.ListCourses(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("listing courses: %w", err)
	}
	return courses, total, nil
}

func (s *courseService) GetCourse(ctx context.Context, id string) (*model.Course, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.GetCourseByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("getting course: %w", err)
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

func (s *courseService) CreateCourse(ctx context.Context, p *model.CoursePayload) (*model.Course, error) {
	c, err := NormalizeCourse(p)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateCourse(ctx, c); err != nil {
		return nil, fmt.Errorf("creating course: %w", err)
	}
	s.logger.Info().Str("course_id", c.ID.Hex()).Str("title", c.Title).Msg("Course created")
	return c, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, id string, p *model.CoursePayload) (*model.Course, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	update, err := NormalizeCourseUpdate(p)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.UpdateCourse(ctx, oid, update)
	if err != nil {
		return nil, fmt.Errorf("updating course: %w", err)
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, id string) (*model.Course, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.DeleteCourse(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("deleting course: %w", err)
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	s.logger.Info().Str("course_id", id).Msg("Course deleted")
	return c, nil
}
