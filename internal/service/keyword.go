package service

import (
	"path/filepath"
	"strings"

	"github.com/InQaaaaGit/seo_image.git/internal/models"
)

// DetectKeyword находит ключевое слово запроса.
// Сначала проверяются поля из aliases по порядку, затем первое непустое поле формы,
// затем имя первого файла без расширения. Пустая строка означает, что слова нет.
func DetectKeyword(fields []models.FormField, files []models.StagedFile, aliases []string) string {
	for _, alias := range aliases {
		for _, f := range fields {
			if f.Name != alias {
				continue
			}
			if v := strings.TrimSpace(f.Value); v != "" {
				return v
			}
		}
	}

	for _, f := range fields {
		if v := strings.TrimSpace(f.Value); v != "" {
			return v
		}
	}

	if len(files) > 0 {
		name := filepath.Base(strings.ReplaceAll(files[0].OriginalName, `\`, "/"))
		return strings.TrimSpace(strings.TrimSuffix(name, filepath.Ext(name)))
	}
	return ""
}
