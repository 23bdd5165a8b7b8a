// Package validate проверяет загружаемые файлы в два этапа:
// сначала по расширению из белого списка, затем по реальному содержимому на диске.
package validate

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultAllowedExtensions - расширения, принимаемые по умолчанию.
// svg векторный и в нормализатор не передается.
var DefaultAllowedExtensions = []string{"png", "jpg", "jpeg", "gif", "webp", "bmp", "svg"}

// Policy хранит белый список расширений.
type Policy struct {
	allowed map[string]struct{}
}

// NewPolicy создает политику из списка расширений (регистр и ведущая точка игнорируются).
// Пустой список означает DefaultAllowedExtensions.
func NewPolicy(extensions []string) *Policy {
	if len(extensions) == 0 {
		extensions = DefaultAllowedExtensions
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}
	return &Policy{allowed: allowed}
}

// IsAllowedUpload сообщает, есть ли у имени файла расширение из белого списка.
func (p *Policy) IsAllowedUpload(filename string) bool {
	ext := Extension(filename)
	if ext == "" {
		return false
	}
	_, ok := p.allowed[ext]
	return ok
}

// Extension возвращает расширение после последней точки в нижнем регистре
// или пустую строку, если точки нет.
func Extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}

// IsVector сообщает, что расширение относится к векторному формату.
func IsVector(ext string) bool {
	return strings.EqualFold(strings.TrimPrefix(ext, "."), "svg")
}

// DetectMediaType определяет MIME-тип файла по его содержимому.
func DetectMediaType(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect media type of %s: %w", path, err)
	}
	return mtype.String(), nil
}

// IsImageMediaType сообщает, относится ли MIME-тип к изображениям.
func IsImageMediaType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}

// IsActuallyImage проверяет содержимое файла, не доверяя расширению.
func IsActuallyImage(path string) bool {
	mediaType, err := DetectMediaType(path)
	if err != nil {
		return false
	}
	return IsImageMediaType(mediaType)
}
