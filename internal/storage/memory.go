package storage

import (
	"context"
	"sync"

	"github.com/InQaaaaGit/seo_image.git/internal/models"
)

// MemoryJournal хранит последние записи в памяти.
// При превышении лимита самые старые записи вытесняются.
type MemoryJournal struct {
	mu      sync.RWMutex
	records []models.UploadRecord
	byName  map[string]int
	limit   int
}

// NewMemoryJournal создает журнал в памяти
func NewMemoryJournal(limit int) *MemoryJournal {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return &MemoryJournal{
		byName: make(map[string]int),
		limit:  limit,
	}
}

// SaveBatch добавляет записи в журнал
func (mj *MemoryJournal) SaveBatch(ctx context.Context, records []models.UploadRecord) error {
	mj.mu.Lock()
	defer mj.mu.Unlock()

	for _, rec := range records {
		if _, exists := mj.byName[rec.SavedName]; exists {
			return ErrRecordConflict
		}
	}

	mj.records = append(mj.records, records...)
	if overflow := len(mj.records) - mj.limit; overflow > 0 {
		mj.records = append([]models.UploadRecord(nil), mj.records[overflow:]...)
	}
	mj.reindex()
	return nil
}

// reindex перестраивает индекс по имени файла. Вызывается под блокировкой.
func (mj *MemoryJournal) reindex() {
	mj.byName = make(map[string]int, len(mj.records))
	for i, rec := range mj.records {
		mj.byName[rec.SavedName] = i
	}
}

// List возвращает последние записи, новые первыми
func (mj *MemoryJournal) List(ctx context.Context, limit int) ([]models.UploadRecord, error) {
	mj.mu.RLock()
	defer mj.mu.RUnlock()

	return newestFirst(mj.records, limit), nil
}

// GetBySavedName находит запись по имени сохраненного файла
func (mj *MemoryJournal) GetBySavedName(ctx context.Context, savedName string) (models.UploadRecord, error) {
	mj.mu.RLock()
	defer mj.mu.RUnlock()

	i, ok := mj.byName[savedName]
	if !ok {
		return models.UploadRecord{}, ErrRecordNotFound
	}
	return mj.records[i], nil
}

// CheckConnection всегда успешна для журнала в памяти
func (mj *MemoryJournal) CheckConnection(ctx context.Context) error {
	return nil
}

// Close ничего не делает для журнала в памяти
func (mj *MemoryJournal) Close() error {
	return nil
}

// newestFirst копирует не более limit последних записей в обратном порядке
func newestFirst(records []models.UploadRecord, limit int) []models.UploadRecord {
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}
	result := make([]models.UploadRecord, 0, limit)
	for i := len(records) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, records[i])
	}
	return result
}
