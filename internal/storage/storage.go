package storage

import (
	"fmt"

	"go.uber.org/zap"
)

// DefaultMemoryLimit - сколько записей хранит журнал в памяти по умолчанию
const DefaultMemoryLimit = 1000

// Options задает выбор реализации журнала
type Options struct {
	DatabaseDSN string // Строка подключения к PostgreSQL
	FilePath    string // Путь к файлу журнала (JSON Lines)
	MemoryLimit int    // Размер журнала в памяти
}

// NewJournal выбирает реализацию журнала: PostgreSQL, файл или память, в таком порядке.
func NewJournal(opts Options, logger *zap.Logger) (UploadJournal, error) {
	switch {
	case opts.DatabaseDSN != "":
		logger.Info("Using PostgreSQL upload journal")
		journal, err := NewPostgresJournal(opts.DatabaseDSN, logger)
		if err != nil {
			return nil, fmt.Errorf("error creating postgres journal: %w", err)
		}
		return journal, nil
	case opts.FilePath != "":
		logger.Info("Using file upload journal", zap.String("path", opts.FilePath))
		journal, err := NewFileJournal(opts.FilePath, logger)
		if err != nil {
			return nil, fmt.Errorf("error creating file journal: %w", err)
		}
		return journal, nil
	default:
		logger.Info("Using in-memory upload journal", zap.Int("limit", opts.MemoryLimit))
		return NewMemoryJournal(opts.MemoryLimit), nil
	}
}
