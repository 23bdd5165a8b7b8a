package storage

import (
	"context"

	"github.com/InQaaaaGit/seo_image.git/internal/models"
)

// UploadJournal интерфейс журнала сохраненных изображений
type UploadJournal interface {
	// SaveBatch сохраняет записи одного запроса
	SaveBatch(ctx context.Context, records []models.UploadRecord) error

	// List возвращает не более limit последних записей, новые первыми
	List(ctx context.Context, limit int) ([]models.UploadRecord, error)

	// GetBySavedName находит запись по имени сохраненного файла.
	// Возвращает ErrRecordNotFound, если такой записи нет.
	GetBySavedName(ctx context.Context, savedName string) (models.UploadRecord, error)

	// Close освобождает ресурсы хранилища
	Close() error
}

// DatabaseChecker интерфейс для проверки соединения с хранилищем
type DatabaseChecker interface {
	// CheckConnection проверяет доступность хранилища
	CheckConnection(ctx context.Context) error
}
