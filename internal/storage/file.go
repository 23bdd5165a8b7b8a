package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/InQaaaaGit/seo_image.git/internal/models"
	"go.uber.org/zap"
)

// FileJournal хранит журнал в файле формата JSON Lines, по записи на строку.
// Все записи дополнительно держатся в памяти для чтения.
type FileJournal struct {
	filePath string
	records  []models.UploadRecord
	byName   map[string]int
	mutex    sync.RWMutex
	file     *os.File
	logger   *zap.Logger
}

// NewFileJournal открывает (или создает) файл журнала и загружает существующие записи
func NewFileJournal(filePath string, logger *zap.Logger) (*FileJournal, error) {
	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	fj := &FileJournal{
		filePath: filePath,
		file:     file,
		byName:   make(map[string]int),
		logger:   logger,
	}

	if err := fj.loadFromFile(); err != nil {
		// Битый хвост файла не мешает продолжить запись
		logger.Error("Error loading upload journal from file", zap.Error(err))
	}

	return fj, nil
}

// loadFromFile читает записи из файла
func (fj *FileJournal) loadFromFile() error {
	fj.mutex.Lock()
	defer fj.mutex.Unlock()

	if _, err := fj.file.Seek(0, 0); err != nil {
		return fmt.Errorf("error seeking to file start: %w", err)
	}

	decoder := json.NewDecoder(fj.file)
	for decoder.More() {
		var record models.UploadRecord
		if err := decoder.Decode(&record); err != nil {
			return fmt.Errorf("error decoding record: %w", err)
		}
		fj.byName[record.SavedName] = len(fj.records)
		fj.records = append(fj.records, record)
	}

	return nil
}

// SaveBatch дописывает записи в конец файла
func (fj *FileJournal) SaveBatch(ctx context.Context, records []models.UploadRecord) error {
	fj.mutex.Lock()
	defer fj.mutex.Unlock()

	if fj.file == nil {
		return fmt.Errorf("file journal is closed")
	}

	for _, record := range records {
		if _, exists := fj.byName[record.SavedName]; exists {
			return ErrRecordConflict
		}
	}

	var buf []byte
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("error marshaling upload record: %w", err)
		}
		buf = append(buf, data...)
		buf = append(buf, '\n')
	}

	if _, err := fj.file.Write(buf); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	for _, record := range records {
		fj.byName[record.SavedName] = len(fj.records)
		fj.records = append(fj.records, record)
	}
	return nil
}

// List возвращает последние записи, новые первыми
func (fj *FileJournal) List(ctx context.Context, limit int) ([]models.UploadRecord, error) {
	fj.mutex.RLock()
	defer fj.mutex.RUnlock()

	return newestFirst(fj.records, limit), nil
}

// GetBySavedName находит запись по имени сохраненного файла
func (fj *FileJournal) GetBySavedName(ctx context.Context, savedName string) (models.UploadRecord, error) {
	fj.mutex.RLock()
	defer fj.mutex.RUnlock()

	i, ok := fj.byName[savedName]
	if !ok {
		return models.UploadRecord{}, ErrRecordNotFound
	}
	return fj.records[i], nil
}

// CheckConnection проверяет, что файл журнала открыт
func (fj *FileJournal) CheckConnection(ctx context.Context) error {
	fj.mutex.RLock()
	defer fj.mutex.RUnlock()

	if fj.file == nil {
		return fmt.Errorf("file is not open")
	}

	return nil
}

// Sync принудительно синхронизирует данные с диском
func (fj *FileJournal) Sync() error {
	fj.mutex.Lock()
	defer fj.mutex.Unlock()

	if fj.file != nil {
		if err := fj.file.Sync(); err != nil {
			return fmt.Errorf("error syncing file: %w", err)
		}
	}

	return nil
}

// Close закрывает файл
func (fj *FileJournal) Close() error {
	fj.mutex.Lock()
	defer fj.mutex.Unlock()

	if fj.file != nil {
		if err := fj.file.Sync(); err != nil {
			fj.logger.Error("Error syncing file before close", zap.Error(err))
		}

		if err := fj.file.Close(); err != nil {
			return fmt.Errorf("error closing file: %w", err)
		}
		fj.file = nil
	}

	return nil
}
