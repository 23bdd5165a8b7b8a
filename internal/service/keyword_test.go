package service

import (
	"testing"

	"github.com/InQaaaaGit/seo_image.git/internal/config"
	"github.com/InQaaaaGit/seo_image.git/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDetectKeyword(t *testing.T) {
	aliases := config.DefaultKeywordFields

	tests := []struct {
		name   string
		fields []models.FormField
		files  []models.StagedFile
		want   string
	}{
		{
			name:   "Поле keyword",
			fields: []models.FormField{{Name: "keyword", Value: "red shoes"}},
			want:   "red shoes",
		},
		{
			name: "Приоритет псевдонимов не зависит от порядка полей",
			fields: []models.FormField{
				{Name: "title", Value: "from title"},
				{Name: "text_1", Value: "from tilda"},
			},
			want: "from tilda",
		},
		{
			name: "Пустой псевдоним пропускается",
			fields: []models.FormField{
				{Name: "keyword", Value: "   "},
				{Name: "q", Value: " search "},
			},
			want: "search",
		},
		{
			name: "Первое непустое поле формы",
			fields: []models.FormField{
				{Name: "formname", Value: ""},
				{Name: "Input_7", Value: "blue hat"},
				{Name: "Input_8", Value: "ignored"},
			},
			want: "blue hat",
		},
		{
			name:  "Имя первого файла",
			files: []models.StagedFile{{OriginalName: "Summer Dress.JPG"}, {OriginalName: "other.png"}},
			want:  "Summer Dress",
		},
		{
			name:  "Путь в имени файла",
			files: []models.StagedFile{{OriginalName: `C:\photos\beach.png`}},
			want:  "beach",
		},
		{
			name:  "Имя файла из одного расширения",
			files: []models.StagedFile{{OriginalName: ".png"}},
			want:  "",
		},
		{
			name: "Ничего нет",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectKeyword(tt.fields, tt.files, aliases))
		})
	}
}

func TestDetectKeyword_CustomAliases(t *testing.T) {
	fields := []models.FormField{
		{Name: "keyword", Value: "default"},
		{Name: "seo_phrase", Value: "custom"},
	}
	assert.Equal(t, "custom", DetectKeyword(fields, nil, []string{"seo_phrase"}))
}
