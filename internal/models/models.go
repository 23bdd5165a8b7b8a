package models

// FormField - текстовое поле формы в порядке поступления.
type FormField struct {
	Name  string
	Value string
}

// StagedFile - загруженный файл, сохраненный во временный путь и прошедший проверки.
type StagedFile struct {
	FieldName    string // Имя файлового поля формы
	OriginalName string // Имя файла, переданное клиентом
	TempPath     string // Путь к временному файлу
	Size         int64  // Размер в байтах
	MediaType    string // MIME-тип, определенный по содержимому
}

// UploadRequest - ключевое слово и файлы одного запроса.
type UploadRequest struct {
	Keyword string
	Files   []StagedFile
}

// NormalizedAsset - итог обработки одного файла. Не изменяется после создания.
type NormalizedAsset struct {
	OriginalName string
	SavedName    string
	FilePath     string
	Outcome      string // normalized, fallback или passthrough
	Optimized    bool
	Metadata     SEOMetadata
}

// SEOMetadata - производные SEO-атрибуты изображения.
type SEOMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Alt         string `json:"alt"`
	Hashtags    string `json:"hashtags"`
}
