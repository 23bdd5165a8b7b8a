package handler

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"sort"
	"unicode/utf8"

	"go.uber.org/zap"
)

// previewLimit - сколько символов значения поля показывает /debug
const previewLimit = 200

// debugMemory - сколько байт формы /debug держит в памяти
const debugMemory = 32 << 20

// DebugResponse - то, что /debug узнал о запросе
type DebugResponse struct {
	Success     bool                `json:"success"`
	Method      string              `json:"method"`
	ContentType string              `json:"content_type"`
	FormKeys    []string            `json:"form_keys"`
	FormPreview map[string]string   `json:"form_preview"`
	FileKeys    []string            `json:"file_keys"`
	FileNames   map[string][]string `json:"file_names"`
	JSONBody    any                 `json:"json_body"`
	Message     string              `json:"message"`
}

// HandleDebug возвращает и логирует состав запроса. Файлы не сохраняются.
func (h *Handler) HandleDebug(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxRequestBytes)

	resp := DebugResponse{
		Success:     true,
		Method:      r.Method,
		ContentType: r.Header.Get("Content-Type"),
		FormKeys:    []string{},
		FormPreview: map[string]string{},
		FileKeys:    []string{},
		FileNames:   map[string][]string{},
		Message:     "Request received, see server log for details.",
	}

	mediaType, _, _ := mime.ParseMediaType(resp.ContentType)
	switch mediaType {
	case contentTypeJSON:
		body, err := io.ReadAll(r.Body)
		if err == nil && len(body) > 0 {
			var v any
			if json.Unmarshal(body, &v) == nil {
				resp.JSONBody = v
			}
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(debugMemory); err != nil {
			h.logger.Info("Debug request has unreadable form", zap.Error(err))
		}
	default:
		if err := r.ParseForm(); err != nil {
			h.logger.Info("Debug request has unreadable form", zap.Error(err))
		}
	}
	if r.MultipartForm != nil {
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				h.logger.Warn("Error removing debug form files", zap.Error(err))
			}
		}()
	}

	for key, values := range r.Form {
		resp.FormKeys = append(resp.FormKeys, key)
		if len(values) > 0 {
			resp.FormPreview[key] = preview(values[0])
		}
	}
	if r.MultipartForm != nil {
		for key, headers := range r.MultipartForm.File {
			resp.FileKeys = append(resp.FileKeys, key)
			names := make([]string, 0, len(headers))
			for _, fh := range headers {
				if fh.Filename != "" {
					names = append(names, fh.Filename)
				}
			}
			resp.FileNames[key] = names
		}
	}

	sort.Strings(resp.FormKeys)
	sort.Strings(resp.FileKeys)

	h.logger.Info("Debug request",
		zap.String("method", resp.Method),
		zap.String("url", r.URL.String()),
		zap.String("content_type", resp.ContentType),
		zap.Any("form_preview", resp.FormPreview),
		zap.Any("file_names", resp.FileNames),
		zap.Any("json_body", resp.JSONBody))

	h.writeJSON(w, http.StatusOK, resp)
}

// preview обрезает длинное значение до previewLimit символов
func preview(v string) string {
	if utf8.RuneCountInString(v) <= previewLimit {
		return v
	}
	runes := []rune(v)
	return string(runes[:previewLimit]) + "..."
}
