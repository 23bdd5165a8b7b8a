package handler

import (
	"net/http"

	"go.uber.org/zap"
)

// homeMessage - ответ проверки живости
const homeMessage = "Image server — OK"

// HandleHome отвечает, что сервер запущен
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentTypePlain)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(homeMessage)); err != nil {
		h.logger.Error("Error writing response", zap.Error(err))
	}
}

// HandlePing проверяет каталог загрузок и журнал
func (h *Handler) HandlePing(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CheckConnection(r.Context()); err != nil {
		h.logger.Error("Ошибка проверки хранилища", zap.Error(err))
		http.Error(w, "Storage connection error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
