package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/api/v1/dto"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

const genericServerError = "Internal server error"

func writeJSON(w http.ResponseWriter, status int, v any, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string, logger zerolog.Logger) {
	writeJSON(w, status, dto.ErrorResponseDTO{Error: msg}, logger)
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return err
	}
	return nil
}

// writeValidationFailed turns validator errors into field-level detail.
func writeValidationFailed(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error(), logger)
		return
	}
	details := make([]dto.FieldErrorDTO, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, dto.FieldErrorDTO{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}
	writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponseDTO{Error: "Validation failed", Details: details}, logger)
}

// fieldPath drops the struct name from the namespace, e.g.
// "ChatRequestDTO.messages[0].role" becomes "messages[0].role".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "mongodb":
		return fe.Field() + " must be a valid ID"
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// writeServiceError maps service errors to statuses. entity names the
// resource in client messages. Anything unrecognized is logged and answered
// with a generic 500.
func writeServiceError(w http.ResponseWriter, err error, entity string, logger zerolog.Logger) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, dto.ValidationErrorResponseDTO{
			Error:   verr.Message,
			Details: []dto.FieldErrorDTO{{Field: verr.Field, Message: verr.Message}},
		}, logger)
	case errors.Is(err, service.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid "+entity+" ID", logger)
	case errors.Is(err, service.ErrUnknownView),
		errors.Is(err, service.ErrRoleNotAllowed),
		errors.Is(err, service.ErrUnsupportedContentType),
		errors.Is(err, service.ErrUnknownUploadFolder):
		writeError(w, http.StatusBadRequest, err.Error(), logger)
	case errors.Is(err, service.ErrStorageDisabled), errors.Is(err, service.ErrChatDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error(), logger)
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrLeadNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPostNotFound):
		writeError(w, http.StatusNotFound, strings.ToUpper(entity[:1])+entity[1:]+" not found", logger)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error(), logger)
	case errors.Is(err, service.ErrUserBlocked):
		writeError(w, http.StatusForbidden, err.Error(), logger)
	case errors.Is(err, service.ErrEmailAlreadyRegistered), errors.Is(err, service.ErrSlugTaken):
		writeError(w, http.StatusConflict, err.Error(), logger)
	default:
		logger.Error().Err(err).Str("entity", entity).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, genericServerError, logger)
	}
}
