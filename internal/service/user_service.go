package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/repository"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/util"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrUserBlocked            = errors.New("account is blocked")
	ErrRoleNotAllowed         = errors.New("role not allowed")
)

// Fields an admin may change on a student or instructor account.
var userUpdatableFields = map[string]bool{
	"name":            true,
	"phone":           true,
	"expertise":       true,
	"blocked":         true,
	"enrolledCourses": true,
}

type UserService interface {
	// Register creates a student or instructor account.
	Register(ctx context.Context, u *model.User, password string) (*model.User, error)
	// CreateAccount creates an account with any role.
	CreateAccount(ctx context.Context, u *model.User, password string) (*model.User, error)
	// Login checks credentials and returns the user with a signed token.
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Get(ctx context.Context, id string) (*model.User, error)
	// GetCourses returns a student's enrolled courses or an instructor's
	// taught courses.
	GetCourses(ctx context.Context, u *model.User) ([]model.Course, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
	UpdateAccount(ctx context.Context, role model.Role, id string, fields map[string]any) (*model.User, error)
	DeleteAccount(ctx context.Context, role model.Role, id string) (*model.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
	jwtSecret  string
	tokenTTL   time.Duration
	logger     zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, courseRepo repository.CourseRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		courseRepo: courseRepo,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		logger:     logger.With().Str("service", "UserService").Logger(),
	}
}

// bcrypt only accepts passwords up to 72 bytes.
const maxPasswordBytes = 72

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", validationErrorf("password", "password must be at most %d bytes", maxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (s *userService) Register(ctx context.Context, u *model.User, password string) (*model.User, error) {
	if u.Role == "" {
		u.Role = model.RoleStudent
	}
	if u.Role != model.RoleStudent && u.Role != model.RoleInstructor {
		return nil, ErrRoleNotAllowed
	}
	return s.CreateAccount(ctx, u, password)
}

func (s *userService) CreateAccount(ctx context.Context, u *model.User, password string) (*model.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u.Name = strings.TrimSpace(u.Name)
	u.PasswordHash = hash
	if err := s.userRepo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	s.logger.Info().Str("user_id", u.ID.Hex()).Str("role", string(u.Role)).Msg("Account created")
	return u, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if u.Blocked {
		return nil, "", ErrUserBlocked
	}
	token, err := util.IssueJWT(s.jwtSecret, u.ID.Hex(), u.Email, string(u.Role), s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	u, err := s.userRepo.GetUserByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) GetCourses(ctx context.Context, u *model.User) ([]model.Course, error) {
	switch u.Role {
	case model.RoleStudent:
		ids := make([]primitive.ObjectID, 0, len(u.EnrolledCourses))
		for _, hex := range u.EnrolledCourses {
			oid, err := ParseID(hex)
			if err != nil {
				s.logger.Warn().Str("user_id", u.ID.Hex()).Str("course_id", hex).Msg("Skipping malformed enrolled course ID")
				continue
			}
			ids = append(ids, oid)
		}
		courses, err := s.courseRepo.GetCoursesByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("getting enrolled courses: %w", err)
		}
		return courses, nil
	case model.RoleInstructor:
		courses, err := s.courseRepo.GetCoursesByInstructor(ctx, u.Name)
		if err != nil {
			return nil, fmt.Errorf("getting instructor courses: %w", err)
		}
		return courses, nil
	default:
		return []model.Course{}, nil
	}
}

func (s *userService) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	users, err := s.userRepo.ListUsersByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("listing %s accounts: %w", role, err)
	}
	return users, nil
}

func (s *userService) UpdateAccount(ctx context.Context, role model.Role, id string, fields map[string]any) (*model.User, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	set := map[string]any{}
	for k, v := range fields {
		if userUpdatableFields[k] {
			set[k] = v
		}
	}
	if len(set) == 0 {
		return nil, validationErrorf("", "no updatable fields supplied")
	}
	u, err := s.userRepo.UpdateUser(ctx, oid, role, set)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) DeleteAccount(ctx context.Context, role model.Role, id string) (*model.User, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	u, err := s.userRepo.DeleteUser(ctx, oid, role)
	if err != nil {
		return nil, fmt.Errorf("deleting user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	s.logger.Info().Str("user_id", id).Str("role", string(role)).Msg("Account deleted")
	return u, nil
}
