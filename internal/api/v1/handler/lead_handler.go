package handler

import (
	"net/http"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/api/v1/dto"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/middleware"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// LeadHandler serves the public contact, schedule-call and join-project forms
type LeadHandler struct {
	leadService service.LeadService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewLeadHandler(leadService service.LeadService, validate *validator.Validate, logger zerolog.Logger) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		validate:    validate,
		logger:      logger.With().Str("handler", "LeadHandler").Logger(),
	}
}

// RegisterRoutes mounts the form endpoints, each limited per client IP.
func (h *LeadHandler) RegisterRoutes(r *mux.Router, limiter *middleware.RateLimiter) {
	forms := []struct {
		path string
		kind model.LeadKind
	}{
		{"/leads", model.LeadKindContact},
		{"/schedule-call", model.LeadKindScheduleCall},
		{"/join-project", model.LeadKindJoinProject},
	}
	for _, f := range forms {
		r.Handle(f.path, limiter.Limit(string(f.kind))(h.captureLead(f.kind))).Methods(http.MethodPost)
	}
}

// captureLead godoc
// @Summary Submit a lead form
// @Description Stores a contact, schedule-call or join-project submission.
// @Tags leads
// @Accept json
// @Produce json
// @Param lead body dto.LeadCreateDTO true "Form fields"
// @Success 201 {object} dto.LeadResponseDTO
// @Failure 400 {object} dto.ValidationErrorResponseDTO
// @Failure 429 {object} dto.ErrorResponseDTO
// @Failure 500 {object} dto.ErrorResponseDTO
// @Router /leads [post]
// @Router /schedule-call [post]
// @Router /join-project [post]
func (h *LeadHandler) captureLead(kind model.LeadKind) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dto.LeadCreateDTO
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON payload: "+err.Error(), h.logger)
			return
		}
		if err := h.validate.Struct(&req); err != nil {
			writeValidationFailed(w, err, h.logger)
			return
		}
		lead, err := h.leadService.CaptureLead(r.Context(), &model.Lead{
			Kind:            kind,
			Name:            req.Name,
			Email:           req.Email,
			Phone:           req.Phone,
			Company:         req.Company,
			Service:         req.Service,
			Message:         req.Message,
			PreferredDate:   req.PreferredDate,
			PreferredTime:   req.PreferredTime,
			ProjectInterest: req.ProjectInterest,
		})
		if err != nil {
			writeServiceError(w, err, "lead", h.logger)
			return
		}
		writeJSON(w, http.StatusCreated, dto.LeadResponseDTO{Message: leadMessages[kind], Lead: lead}, h.logger)
	})
}

var leadMessages = map[model.LeadKind]string{
	model.LeadKindContact:      "Thanks for reaching out, we will get back to you soon",
	model.LeadKindScheduleCall: "Your call request has been received",
	model.LeadKindJoinProject:  "Your project request has been received",
}
