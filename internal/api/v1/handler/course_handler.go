package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/api/v1/dto"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// CourseHandler handles course catalog endpoints
type CourseHandler struct {
	courseService service.CourseService
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService service.CourseService, validate *validator.Validate, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		validate:      validate,
		logger:        logger.With().Str("handler", "CourseHandler").Logger(),
	}
}

// RegisterRoutes mounts course routes. Reads are public; writes go through adminMw.
func (h *CourseHandler) RegisterRoutes(r *mux.Router, adminMw func(http.Handler) http.Handler) {
	r.HandleFunc("/courses", h.listCourses).Methods(http.MethodGet)
	r.Handle("/courses", adminMw(http.HandlerFunc(h.createCourse))).Methods(http.MethodPost)
	r.HandleFunc("/courses/{id}", h.getCourse).Methods(http.MethodGet)
	r.Handle("/courses/{id}", adminMw(http.HandlerFunc(h.updateCourse))).Methods(http.MethodPut, http.MethodPatch)
	r.Handle("/courses/{id}", adminMw(http.HandlerFunc(h.deleteCourse))).Methods(http.MethodDelete)
}

// listCourses godoc
// @Summary List courses
// @Description Lists courses newest first. Every filter is optional.
// @Tags courses
// @Produce json
// @Param category query string false "Category"
// @Param courseCategory query string false "Course category"
// @Param featured query bool false "Featured only"
// @Param trending query bool false "Trending only"
// @Param search query string false "Free-text search"
// @Param level query string false "Level"
// @Param mode query string false "Mode"
// @Param limit query int false "Page size"
// @Param skip query int false "Offset"
// @Success 200 {object} dto.CourseListResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 500 {object} dto.ErrorResponseDTO
// @Router /courses [get]
func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCourseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}
	courses, total, err := h.courseService.ListCourses(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, "course", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.CourseListResponseDTO{Courses: courses, Total: total}, h.logger)
}

// createCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Param course body model.CoursePayload true "Course fields"
// @Success 201 {object} dto.CourseMutationResponseDTO
// @Failure 400 {object} dto.ValidationErrorResponseDTO
// @Failure 401 {object} dto.ErrorResponseDTO
// @Failure 403 {object} dto.ErrorResponseDTO
// @Failure 500 {object} dto.ErrorResponseDTO
// @Router /courses [post]
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	course, err := h.courseService.CreateCourse(r.Context(), payload)
	if err != nil {
		writeServiceError(w, err, "course", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, dto.CourseMutationResponseDTO{Message: "Course created successfully", Course: course}, h.logger)
}

// getCourse godoc
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.CourseResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponseDTO "Course not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseService.GetCourse(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err, "course", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.CourseResponseDTO{Course: course}, h.logger)
}

// updateCourse godoc
// @Summary Update a course
// @Description PUT and PATCH both set only the fields present in the body.
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param course body model.CoursePayload true "Fields to change"
// @Success 200 {object} dto.CourseMutationResponseDTO
// @Failure 400 {object} dto.ValidationErrorResponseDTO
// @Failure 404 {object} dto.ErrorResponseDTO
// @Router /courses/{id} [put]
// @Router /courses/{id} [patch]
func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := service.ParseID(id); err != nil {
		writeServiceError(w, err, "course", h.logger)
		return
	}
	payload, ok := h.decodePayload(w, r)
	if !ok {
		return
	}
	course, err := h.courseService.UpdateCourse(r.Context(), id, payload)
	if err != nil {
		writeServiceError(w, err, "course", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.CourseMutationResponseDTO{Message: "Course updated successfully", Course: course}, h.logger)
}

// deleteCourse godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} dto.CourseMutationResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 404 {object} dto.ErrorResponseDTO
// @Router /courses/{id} [delete]
func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseService.DeleteCourse(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err, "course", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.CourseMutationResponseDTO{Message: "Course deleted successfully", Course: course}, h.logger)
}

func (h *CourseHandler) decodePayload(w http.ResponseWriter, r *http.Request) (*model.CoursePayload, bool) {
	var payload model.CoursePayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error(), h.logger)
		return nil, false
	}
	if err := h.validate.Struct(&payload); err != nil {
		writeValidationFailed(w, err, h.logger)
		return nil, false
	}
	return &payload, true
}

// parseCourseFilter reads the list query. featured and trending only
// constrain when they are exactly "true" or "false".
func parseCourseFilter(r *http.Request) (model.CourseFilter, error) {
	q := r.URL.Query()
	f := model.CourseFilter{
		Category:       q.Get("category"),
		CourseCategory: q.Get("courseCategory"),
		Search:         q.Get("search"),
		Level:          q.Get("level"),
		Mode:           q.Get("mode"),
		Featured:       parseFlag(q.Get("featured")),
		Trending:       parseFlag(q.Get("trending")),
	}
	var err error
	if f.Limit, err = parseCount(q.Get("limit"), "limit"); err != nil {
		return f, err
	}
	if f.Skip, err = parseCount(q.Get("skip"), "skip"); err != nil {
		return f, err
	}
	return f, nil
}

func parseFlag(v string) *bool {
	switch v {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	}
	return nil
}

func parseCount(v, name string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}
