package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/InQaaaaGit/seo_image.git/internal/models"
	"github.com/InQaaaaGit/seo_image.git/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Ограничения выдачи журнала
const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// HandleListUploads возвращает последние записи журнала загрузок
func (h *Handler) HandleListUploads(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
				Error: "limit must be a positive integer",
				Code:  codeBadRequest,
			})
			return
		}
		limit = min(n, maxListLimit)
	}

	records, err := h.service.ListUploads(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if records == nil {
		records = []models.UploadRecord{}
	}

	h.logger.Debug("Upload journal listed", zap.Int("limit", limit), zap.Int("count", len(records)))
	h.writeJSON(w, http.StatusOK, records)
}

// HandleGetUpload возвращает запись журнала по имени сохраненного файла
func (h *Handler) HandleGetUpload(w http.ResponseWriter, r *http.Request) {
	savedName := chi.URLParam(r, "savedName")

	record, err := h.service.GetUpload(r.Context(), savedName)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			h.writeJSON(w, http.StatusNotFound, models.ErrorResponse{
				Error: "upload not found",
				Code:  codeNotFound,
			})
			return
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, record)
}
