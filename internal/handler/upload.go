package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/InQaaaaGit/seo_image.git/internal/models"
	"github.com/InQaaaaGit/seo_image.git/internal/service"
	"go.uber.org/zap"
)

// maxFieldBytes - максимальный размер текстового поля формы
const maxFieldBytes = 1 << 20

// form - разобранное тело multipart-запроса
type form struct {
	fields   []models.FormField
	files    []models.StagedFile
	formKeys []string
	fileKeys []string
}

// HandleUpload принимает multipart-форму с изображениями, сохраняет их
// под SEO-именами и возвращает метаданные каждого файла.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxRequestBytes)

	f, err := h.readForm(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("Upload form received",
		zap.Strings("form_keys", f.formKeys),
		zap.Strings("file_keys", f.fileKeys))

	if len(f.files) == 0 {
		h.writeError(w, service.ErrNoFilesProvided)
		return
	}

	keyword := service.DetectKeyword(f.fields, f.files, h.cfg.KeywordFields)
	if keyword == "" {
		h.service.Discard(f.files)
		h.logger.Info("Keyword not found in form", zap.Strings("form_keys", f.formKeys))
		h.writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Success:          false,
			Error:            service.ErrMissingKeyword.Error(),
			Code:             codeMissingKeyword,
			ReceivedFormKeys: f.formKeys,
			ReceivedFileKeys: f.fileKeys,
			Hint:             missingKeywordHint,
		})
		return
	}

	assets, err := h.service.Process(r.Context(), models.UploadRequest{Keyword: keyword, Files: f.files})
	if err != nil {
		h.writeError(w, err)
		return
	}

	results := make([]models.AssetResult, 0, len(assets))
	for _, asset := range assets {
		results = append(results, models.NewAssetResult(asset))
	}

	h.writeJSON(w, http.StatusOK, models.UploadResponse{
		Success: true,
		Keyword: keyword,
		Results: results,
	})
}

// readForm читает части формы по порядку. Файлы проверяются и сохраняются во
// временный каталог по мере чтения. При ошибке уже сохраненные файлы удаляются.
func (h *Handler) readForm(r *http.Request) (*form, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrMalformedForm, err)
	}

	f := &form{}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return f, nil
		}
		if err != nil {
			h.service.Discard(f.files)
			return nil, formError(err)
		}

		err = h.readPart(f, part)
		if closeErr := part.Close(); closeErr != nil {
			h.logger.Debug("Error closing form part", zap.Error(closeErr))
		}
		if err != nil {
			h.service.Discard(f.files)
			return nil, err
		}
	}
}

func (h *Handler) readPart(f *form, part *multipart.Part) error {
	name := part.FormName()

	if !isFilePart(part) {
		data, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
		if err != nil {
			return formError(err)
		}
		if len(data) > maxFieldBytes {
			return fmt.Errorf("field %s: %w", name, service.ErrFileTooLarge)
		}
		f.formKeys = appendUnique(f.formKeys, name)
		f.fields = append(f.fields, models.FormField{Name: name, Value: string(data)})
		return nil
	}

	f.fileKeys = appendUnique(f.fileKeys, name)
	filename := part.FileName()
	// Пустое поле выбора файла: браузер присылает часть с filename=""
	if filename == "" {
		return nil
	}
	staged, err := h.service.Stage(name, filename, part)
	if err != nil {
		return err
	}
	f.files = append(f.files, staged)
	return nil
}

// isFilePart сообщает, есть ли у части параметр filename, даже пустой.
func isFilePart(part *multipart.Part) bool {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return part.FileName() != ""
	}
	_, ok := params["filename"]
	return ok
}

// formError отличает превышение размера тела от испорченной формы
func formError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return fmt.Errorf("%w: %v", service.ErrFileTooLarge, err)
	}
	return fmt.Errorf("%w: %v", service.ErrMalformedForm, err)
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
