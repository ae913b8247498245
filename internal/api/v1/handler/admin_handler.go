package handler

import (
	"net/http"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/api/v1/dto"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// AdminHandler serves the super-admin back office. Every view shares one
// endpoint selected by the view query parameter.
type AdminHandler struct {
	dashboard service.DashboardService
	courses   service.CourseService
	leads     service.LeadService
	users     service.UserService
	blogs     service.BlogService
	storage   service.StorageService
	validate  *validator.Validate
	logger    zerolog.Logger
}

func NewAdminHandler(
	dashboard service.DashboardService,
	courses service.CourseService,
	leads service.LeadService,
	users service.UserService,
	blogs service.BlogService,
	storage service.StorageService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		dashboard: dashboard,
		courses:   courses,
		leads:     leads,
		users:     users,
		blogs:     blogs,
		storage:   storage,
		validate:  validate,
		logger:    logger.With().Str("handler", "AdminHandler").Logger(),
	}
}

// RegisterRoutes mounts the back office routes behind adminMw
func (h *AdminHandler) RegisterRoutes(r *mux.Router, adminMw func(http.Handler) http.Handler) {
	s := r.PathPrefix("/super-admin").Subrouter()
	s.Use(adminMw)
	s.HandleFunc("/data", h.listView).Methods(http.MethodGet)
	s.HandleFunc("/data", h.createRecord).Methods(http.MethodPost)
	s.HandleFunc("/data", h.updateRecord).Methods(http.MethodPut, http.MethodPatch)
	s.HandleFunc("/data", h.deleteRecord).Methods(http.MethodDelete)
	s.HandleFunc("/overview", h.overview).Methods(http.MethodGet)
	s.HandleFunc("/uploads", h.presignUpload).Methods(http.MethodPost)
}

// listView godoc
// @Summary List one back office view
// @Tags super-admin
// @Produce json
// @Param view query string true "leads, scheduleCalls, joinProjects, students, instructors, courses or blogs"
// @Success 200 {object} dto.AdminListResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO "Unknown view"
// @Router /super-admin/data [get]
func (h *AdminHandler) listView(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	rows, err := h.dashboard.ListView(r.Context(), view)
	if err != nil {
		writeServiceError(w, err, "record", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.AdminListResponseDTO{
		View:    view,
		Columns: view.Columns(),
		Items:   rows,
		Total:   len(rows),
	}, h.logger)
}

// createRecord godoc
// @Summary Create a record in a back office view
// @Description Lead views are read-only here; leads come from the public forms.
// @Tags super-admin
// @Accept json
// @Produce json
// @Param view query string true "courses, blogs, students or instructors"
// @Success 201 {object} dto.AdminMutationResponseDTO
// @Failure 400 {object} dto.ValidationErrorResponseDTO
// @Failure 409 {object} dto.ErrorResponseDTO
// @Router /super-admin/data [post]
func (h *AdminHandler) createRecord(w http.ResponseWriter, r *http.Request) {
	view, ok := h.view(w, r)
	if !ok {
		return
	}
	if _, isLead := view.LeadKind(); isLead {
		writeError(w, http.StatusBadRequest, "Leads are created through the public forms", h.logger)
		return
	}

	var (
		item any
		err  error
	)
	switch {
	case view == service.ViewCourses:
		var payload model.CoursePayload
		if !h.decode(w, r, &payload) {
			return
		}
		item, err = h.courses.CreateCourse(r.Context(), &payload)
	case view == service.ViewBlogs:
		var req dto.BlogPostCreateDTO
		if !h.decode(w, r, &req) {
			return
		}
		item, err = h.blogs.CreatePost(r.Context(), &model.BlogPost{
			Title:       req.Title,
			Slug:        req.Slug,
			Excerpt:     req.Excerpt,
			Content:     req.Content,
			Author:      req.Author,
			CoverImage:  req.CoverImage,
			Tags:        req.Tags,
			Published:   req.Published,
			PublishedAt: req.PublishedAt,
		})
	default:
		role, _ := view.Role()
		var req dto.AccountCreateDTO
		if !h.decode(w, r, &req) {
			return
		}
		item, err = h.users.CreateAccount(r.Context(), &model.User{
			Name:            req.Name,
			Email:           req.Email,
			Role:            role,
			Phone:           req.Phone,
			Expertise:       req.Expertise,
			EnrolledCourses: req.EnrolledCourses,
		}, req.Password)
	}
	if err != nil {
		writeServiceError(w, err, "record", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, dto.AdminMutationResponseDTO{Message: "Record created successfully", View: view, Item: item}, h.logger)
}

// updateRecord godoc
// @Summary Update a record in a back office view
// @Tags super-admin
// @Accept json
// @Produce json
// @Param view query string true "View name"
// @Param id query string true "Record ID"
// @Success 200 {object} dto.AdminMutationResponseDTO
// @Failure 400 {object} dto.ValidationErrorResponseDTO
// @Failure 404 {object} dto.ErrorResponseDTO
// @Router /super-admin/data [put]
func (h *AdminHandler) updateRecord(w http.ResponseWriter, r *http.Request) {
	view, id, ok := h.viewAndID(w, r)
	if !ok {
		return
	}

	var (
		item any
		err  error
	)
	if kind, isLead := view.LeadKind(); isLead {
		var req dto.LeadStatusUpdateDTO
		if !h.decode(w, r, &req) {
			return
		}
		item, err = h.leads.UpdateLeadStatus(r.Context(), kind, id, req.Status)
	} else if role, isUser := view.Role(); isUser {
		var req dto.AccountUpdateDTO
		if !h.decode(w, r, &req) {
			return
		}
		item, err = h.users.UpdateAccount(r.Context(), role, id, accountFields(&req))
	} else if view == service.ViewCourses {
		var payload model.CoursePayload
		if !h.decode(w, r, &payload) {
			return
		}
		item, err = h.courses.UpdateCourse(r.Context(), id, &payload)
	} else {
		var req dto.BlogPostUpdateDTO
		if !h.decode(w, r, &req) {
			return
		}
		item, err = h.blogs.UpdatePost(r.Context(), id, postFields(&req))
	}
	if err != nil {
		writeServiceError(w, err, "record", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.AdminMutationResponseDTO{Message: "Record updated successfully", View: view, Item: item}, h.logger)
}

// deleteRecord godoc
// @Summary Delete a record from a back office view
// @Tags super-admin
// @Produce json
// @Param view query string true "View name"
// @Param id query string true "Record ID"
// @Success 200 {object} dto.AdminMutationResponseDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 404 {object} dto.ErrorResponseDTO
// @Router /super-admin/data [delete]
func (h *AdminHandler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	view, id, ok := h.viewAndID(w, r)
	if !ok {
		return
	}
	item, err := h.dashboard.DeleteRecord(r.Context(), view, id)
	if err != nil {
		writeServiceError(w, err, "record", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, dto.AdminMutationResponseDTO{Message: "Record deleted successfully", View: view, Item: item}, h.logger)
}

// overview godoc
// @Summary Back office overview
// @Description Loads every view concurrently. A view that fails to load is reported in errors and does not hide the others.
// @Tags super-admin
// @Produce json
// @Success 200 {object} service.Overview
// @Router /super-admin/overview [get]
func (h *AdminHandler) overview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.dashboard.Overview(r.Context()), h.logger)
}

// presignUpload godoc
// @Summary Presign an image upload
// @Tags super-admin
// @Accept json
// @Produce json
// @Param upload body dto.UploadRequestDTO true "Upload target"
// @Success 200 {object} service.ImageUpload
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 503 {object} dto.ErrorResponseDTO "Storage not configured"
// @Router /super-admin/uploads [post]
func (h *AdminHandler) presignUpload(w http.ResponseWriter, r *http.Request) {
	var req dto.UploadRequestDTO
	if !h.decode(w, r, &req) {
		return
	}
	upload, err := h.storage.PresignImageUpload(r.Context(), req.Folder, req.ContentType)
	if err != nil {
		writeServiceError(w, err, "upload", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, upload, h.logger)
}

func (h *AdminHandler) view(w http.ResponseWriter, r *http.Request) (service.View, bool) {
	view, err := service.ParseView(r.URL.Query().Get("view"))
	if err != nil {
		writeServiceError(w, err, "record", h.logger)
		return "", false
	}
	return view, true
}

// viewAndID checks both query parameters before any store access.
func (h *AdminHandler) viewAndID(w http.ResponseWriter, r *http.Request) (service.View, string, bool) {
	view, ok := h.view(w, r)
	if !ok {
		return "", "", false
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required", h.logger)
		return "", "", false
	}
	if _, err := service.ParseID(id); err != nil {
		writeServiceError(w, err, "record", h.logger)
		return "", "", false
	}
	return view, id, true
}

func (h *AdminHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(w, r, dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error(), h.logger)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeValidationFailed(w, err, h.logger)
		return false
	}
	return true
}

func accountFields(req *dto.AccountUpdateDTO) map[string]any {
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Expertise != nil {
		fields["expertise"] = *req.Expertise
	}
	if req.Blocked != nil {
		fields["blocked"] = *req.Blocked
	}
	if req.EnrolledCourses != nil {
		fields["enrolledCourses"] = req.EnrolledCourses
	}
	return fields
}

func postFields(req *dto.BlogPostUpdateDTO) map[string]any {
	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Slug != nil {
		fields["slug"] = *req.Slug
	}
	if req.Excerpt != nil {
		fields["excerpt"] = *req.Excerpt
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.Author != nil {
		fields["author"] = *req.Author
	}
	if req.CoverImage != nil {
		fields["coverImage"] = *req.CoverImage
	}
	if req.Tags != nil {
		fields["tags"] = req.Tags
	}
	if req.Published != nil {
		fields["published"] = *req.Published
	}
	if req.PublishedAt != nil {
		fields["publishedAt"] = req.PublishedAt.UTC()
	}
	return fields
}
