package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/InQaaaaGit/seo_image.git/internal/models"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// pgUniqueViolation - код ошибки PostgreSQL для нарушения уникальности
const pgUniqueViolation = "23505"

const createTableSQL = `CREATE TABLE IF NOT EXISTS uploads (` +
	`id UUID PRIMARY KEY,` +
	`keyword TEXT NOT NULL,` +
	`original_name TEXT NOT NULL,` +
	`saved_name TEXT NOT NULL UNIQUE,` +
	`file_path TEXT NOT NULL,` +
	`outcome TEXT NOT NULL,` +
	`created_at TIMESTAMPTZ NOT NULL DEFAULT now()` +
	`)`

// PostgresJournal реализует UploadJournal с использованием PostgreSQL
type PostgresJournal struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresJournal подключается к базе данных и создает таблицу uploads
func NewPostgresJournal(dsn string, logger *zap.Logger) (*PostgresJournal, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Failed to close DB connection after ping error", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("database connection check error: %w", err)
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Failed to close DB connection after table creation error", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("table creation error: %w", err)
	}

	return &PostgresJournal{db: db, logger: logger}, nil
}

// SaveBatch сохраняет записи в одной транзакции
func (pj *PostgresJournal) SaveBatch(ctx context.Context, records []models.UploadRecord) (err error) {
	tx, err := pj.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction error: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				pj.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO uploads (id, keyword, original_name, saved_name, file_path, outcome, created_at) `+
			`VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return fmt.Errorf("prepare statement error: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err = stmt.ExecContext(ctx, rec.ID, rec.Keyword, rec.OriginalName, rec.SavedName,
			rec.FilePath, rec.Outcome, rec.CreatedAt); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
				return ErrRecordConflict
			}
			return fmt.Errorf("save upload record error: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction error: %w", err)
	}
	return nil
}

// List возвращает последние записи, новые первыми. limit <= 0 означает все записи.
func (pj *PostgresJournal) List(ctx context.Context, limit int) ([]models.UploadRecord, error) {
	// LIMIT NULL в PostgreSQL снимает ограничение
	pgLimit := sql.NullInt64{Int64: int64(limit), Valid: limit > 0}
	rows, err := pj.db.QueryContext(ctx,
		`SELECT id, keyword, original_name, saved_name, file_path, outcome, created_at `+
			`FROM uploads ORDER BY created_at DESC LIMIT $1`, pgLimit)
	if err != nil {
		return nil, fmt.Errorf("list uploads error: %w", err)
	}
	defer rows.Close()

	var records []models.UploadRecord
	for rows.Next() {
		var rec models.UploadRecord
		if err := rows.Scan(&rec.ID, &rec.Keyword, &rec.OriginalName, &rec.SavedName,
			&rec.FilePath, &rec.Outcome, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan upload record error: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads error: %w", err)
	}
	if records == nil {
		records = []models.UploadRecord{}
	}
	return records, nil
}

// GetBySavedName находит запись по имени сохраненного файла
func (pj *PostgresJournal) GetBySavedName(ctx context.Context, savedName string) (models.UploadRecord, error) {
	var rec models.UploadRecord
	err := pj.db.QueryRowContext(ctx,
		`SELECT id, keyword, original_name, saved_name, file_path, outcome, created_at `+
			`FROM uploads WHERE saved_name = $1`, savedName).
		Scan(&rec.ID, &rec.Keyword, &rec.OriginalName, &rec.SavedName, &rec.FilePath, &rec.Outcome, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.UploadRecord{}, ErrRecordNotFound
		}
		return models.UploadRecord{}, fmt.Errorf("get upload record error: %w", err)
	}
	return rec, nil
}

// CheckConnection проверяет соединение с базой данных
func (pj *PostgresJournal) CheckConnection(ctx context.Context) error {
	return pj.db.PingContext(ctx)
}

// Close закрывает соединение с базой данных
func (pj *PostgresJournal) Close() error {
	return pj.db.Close()
}
