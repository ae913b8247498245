package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/api/v1/dto"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/middleware"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// UserHandler serves sign-up, login and the student/instructor dashboard
type UserHandler struct {
	userService  service.UserService
	validate     *validator.Validate
	tokenTTL     time.Duration
	cookieSecure bool
	logger       zerolog.Logger
}

func NewUserHandler(userService service.UserService, v *validator.Validate, tokenTTL time.Duration, cookieSecure bool, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService:  userService,
		validate:     v,
		tokenTTL:     tokenTTL,
		cookieSecure: cookieSecure,
		logger:       logger.With().Str("handler", "UserHandler").Logger(),
	}
}

// RegisterRoutes mounts v1 auth and dashboard routes
func (h *UserHandler) RegisterRoutes(r *mux.Router, authMw func(http.Handler) http.Handler, limiter *middleware.RateLimiter) {
	r.Handle("/auth/register", limiter.Limit("register")(http.HandlerFunc(h.register))).Methods(http.MethodPost)
	r.Handle("/auth/login", limiter.Limit("login")(http.HandlerFunc(h.login))).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", h.logout).Methods(http.MethodPost)
	r.Handle("/auth/me", authMw(http.HandlerFunc(h.me))).Methods(http.MethodGet)

	members := middleware.RequireRole(model.RoleStudent, model.RoleInstructor)
	r.Handle("/dashboard", authMw(members(http.HandlerFunc(h.dashboard)))).Methods(http.MethodGet)
}

// register godoc
// @Summary Sign up
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.RegisterDTO true "Account fields"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ValidationErrorResponseDTO
// @Failure 409 {object} dto.ErrorResponseDTO "Email already registered"
// @Router /auth/register [post]
func (h *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error(), h.logger)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidationFailed(w, err, h.logger)
		return
	}

	user, err := h.userService.Register(r.Context(), &model.User{
		Name:      req.Name,
		Email:     req.Email,
		Role:      model.Role(req.Role),
		Phone:     req.Phone,
		Expertise: req.Expertise,
	}, req.Password)
	if err != nil {
		writeServiceError(w, err, "user", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, dto.UserResponseDTO{User: user}, h.logger)
}

// login godoc
// @Summary Log in
// @Description Sets an HttpOnly token cookie and returns the same token in the body.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginDTO true "Credentials"
// @Success 200 {object} dto.AuthResponseDTO
// @Failure 401 {object} dto.ErrorResponseDTO "Invalid email or password"
// @Failure 403 {object} dto.ErrorResponseDTO "Account is blocked"
// @Router /auth/login [post]
func (h *UserHandler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error(), h.logger)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeValidationFailed(w, err, h.logger)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "user", h.logger)
		return
	}
	http.SetCookie(w, h.tokenCookie(token, int(h.tokenTTL.Seconds())))
	writeJSON(w, http.StatusOK, dto.AuthResponseDTO{User: user, Token: token}, h.logger)
}

// logout godoc
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponseDTO
// @Router /auth/logout [post]
func (h *UserHandler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.tokenCookie("", -1))
	writeJSON(w, http.StatusOK, dto.MessageResponseDTO{Message: "Logged out"}, h.logger)
}

// me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Router /auth/me [get]
func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, dto.UserResponseDTO{User: user}, h.logger)
}

// dashboard godoc
// @Summary Student or instructor dashboard
// @Description Students get their enrolled courses, instructors the courses they teach.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.DashboardResponseDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Failure 403 {object} dto.ErrorResponseDTO
// @Router /dashboard [get]
func (h *UserHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	courses, err := h.userService.GetCourses(r.Context(), user)
	if err != nil {
		writeServiceError(w, err, "user", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.DashboardResponseDTO{User: user, Courses: courses}, h.logger)
}

// AccountLookup adapts the user service for middleware.RequireAccount. Unknown
// and malformed IDs both mean the account is gone.
func AccountLookup(svc service.UserService) middleware.AccountLookup {
	return func(ctx context.Context, userID string) (*model.User, error) {
		user, err := svc.Get(ctx, userID)
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidID) {
			return nil, nil
		}
		return user, err
	}
}

// currentUser loads the authenticated account. A token for a deleted or
// blocked account is treated as unauthenticated.
func (h *UserHandler) currentUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required", h.logger)
		return nil, false
	}
	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrInvalidID) {
			writeError(w, http.StatusUnauthorized, "Authentication required", h.logger)
			return nil, false
		}
		writeServiceError(w, err, "user", h.logger)
		return nil, false
	}
	if user.Blocked {
		writeError(w, http.StatusForbidden, service.ErrUserBlocked.Error(), h.logger)
		return nil, false
	}
	return user, true
}

func (h *UserHandler) tokenCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
