package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/InQaaaaGit/seo_image.git/internal/config"
	"github.com/InQaaaaGit/seo_image.git/internal/models"
	"github.com/InQaaaaGit/seo_image.git/internal/service"
	"go.uber.org/zap"
)

const (
	contentTypePlain = "text/plain; charset=utf-8"
	contentTypeJSON  = "application/json"
)

// Коды ошибок в ответах
const (
	codeMissingKeyword  = "missing_keyword"
	codeNoFiles         = "no_files"
	codeDisallowedType  = "disallowed_file_type"
	codeNotAnImage      = "not_an_image"
	codeFileTooLarge    = "file_too_large"
	codeMalformedForm   = "malformed_form"
	codeNotFound        = "not_found"
	codeBadRequest      = "bad_request"
	codeInternalError   = "internal_error"
	internalErrorReason = "internal server error"
)

// missingKeywordHint подсказывает, как настроить форму
const missingKeywordHint = "Make sure the form field name for the text is 'keyword' or 'text_1', or use /debug to see what the form sends."

// Handler обрабатывает HTTP-запросы сервиса изображений
type Handler struct {
	service service.ImageService
	cfg     *config.Config
	logger  *zap.Logger
}

// NewHandler создает обработчик
func NewHandler(service service.ImageService, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}
}

// writeJSON отправляет ответ в формате JSON
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
	}
}

// writeError отправляет ответ об ошибке с кодом, соответствующим ее виду
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("Error processing request", zap.Error(err))
		message = internalErrorReason
	} else {
		h.logger.Info("Request rejected", zap.String("code", code), zap.Error(err))
	}

	h.writeJSON(w, status, models.ErrorResponse{
		Success: false,
		Error:   message,
		Code:    code,
	})
}

// classify сопоставляет ошибку HTTP-статусу и коду ответа
func classify(err error) (int, string) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, service.ErrFileTooLarge), errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, codeFileTooLarge
	case errors.Is(err, service.ErrMissingKeyword):
		return http.StatusBadRequest, codeMissingKeyword
	case errors.Is(err, service.ErrNoFilesProvided):
		return http.StatusBadRequest, codeNoFiles
	case errors.Is(err, service.ErrDisallowedFileType):
		return http.StatusBadRequest, codeDisallowedType
	case errors.Is(err, service.ErrNotAnImage):
		return http.StatusBadRequest, codeNotAnImage
	case errors.Is(err, service.ErrMalformedForm):
		return http.StatusBadRequest, codeMalformedForm
	}
	return http.StatusInternalServerError, codeInternalError
}
