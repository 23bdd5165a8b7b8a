package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/InQaaaaGit/seo_image.git/internal/config"
	"github.com/InQaaaaGit/seo_image.git/internal/models"
	"github.com/InQaaaaGit/seo_image.git/internal/normalize"
	"github.com/InQaaaaGit/seo_image.git/internal/slug"
	"github.com/InQaaaaGit/seo_image.git/internal/storage"
	"github.com/InQaaaaGit/seo_image.git/internal/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// tempPattern - шаблон имени временного файла
const tempPattern = "tmp_*"

// svgMediaType - MIME-тип векторных изображений
const svgMediaType = "image/svg+xml"

// ImageService определяет интерфейс сервиса загрузки изображений
type ImageService interface {
	// Stage проверяет файл и сохраняет его во временный каталог
	Stage(fieldName, originalName string, r io.Reader) (models.StagedFile, error)
	// Process сохраняет подготовленные файлы под SEO-именами
	Process(ctx context.Context, req models.UploadRequest) ([]models.NormalizedAsset, error)
	// Discard удаляет временные файлы
	Discard(files []models.StagedFile)
	// ListUploads возвращает последние записи журнала
	ListUploads(ctx context.Context, limit int) ([]models.UploadRecord, error)
	// GetUpload возвращает запись журнала по имени файла
	GetUpload(ctx context.Context, savedName string) (models.UploadRecord, error)
	// CheckConnection проверяет каталог загрузок и журнал
	CheckConnection(ctx context.Context) error
	// Close освобождает ресурсы
	Close() error
}

// UploadService реализует ImageService
type UploadService struct {
	deriver    *slug.Deriver
	policy     *validate.Policy
	normalizer *normalize.Normalizer
	journal    storage.UploadJournal
	config     *config.Config
	logger     *zap.Logger
}

// NewUploadService создает сервис и каталоги для файлов.
func NewUploadService(cfg *config.Config, journal storage.UploadJournal, logger *zap.Logger) (*UploadService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, dir := range []string{cfg.UploadDir, cfg.TempDirectory()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating directory %s: %w", dir, err)
		}
	}

	normalizer := normalize.New(normalize.Options{
		Quality:      cfg.Quality,
		MaxDimension: cfg.MaxDimension,
		MaxPixels:    cfg.MaxPixels,
		Format:       cfg.Format(),
	}, logger)

	return &UploadService{
		deriver:    slug.NewDeriver(cfg.FallbackSlug),
		policy:     validate.NewPolicy(cfg.AllowedExtensions),
		normalizer: normalizer,
		journal:    journal,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Stage проверяет расширение до записи на диск, сохраняет содержимое во временный файл
// с ограничением размера и проверяет, что это действительно изображение.
// При любой ошибке временный файл удаляется.
func (s *UploadService) Stage(fieldName, originalName string, r io.Reader) (models.StagedFile, error) {
	if !s.policy.IsAllowedUpload(originalName) {
		return models.StagedFile{}, &FileError{Name: originalName, Err: ErrDisallowedFileType}
	}

	tmp, err := os.CreateTemp(s.config.TempDirectory(), tempPattern)
	if err != nil {
		return models.StagedFile{}, fmt.Errorf("error creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	staged, err := s.stage(tmp, r, validate.Extension(originalName))
	if err != nil {
		s.remove(tempPath)
		return models.StagedFile{}, &FileError{Name: originalName, Err: err}
	}

	staged.FieldName = fieldName
	staged.OriginalName = originalName
	staged.TempPath = tempPath

	s.logger.Debug("File staged",
		zap.String("original_name", originalName),
		zap.String("temp_path", tempPath),
		zap.Int64("size", staged.Size),
		zap.String("media_type", staged.MediaType))
	return staged, nil
}

func (s *UploadService) stage(tmp *os.File, r io.Reader, ext string) (models.StagedFile, error) {
	limit := s.config.MaxFileBytes
	written, err := io.Copy(tmp, io.LimitReader(r, limit+1))
	closeErr := tmp.Close()
	if err != nil {
		return models.StagedFile{}, fmt.Errorf("error writing temp file: %w", err)
	}
	if closeErr != nil {
		return models.StagedFile{}, fmt.Errorf("error closing temp file: %w", closeErr)
	}
	if written > limit {
		return models.StagedFile{}, ErrFileTooLarge
	}

	mediaType, err := validate.DetectMediaType(tmp.Name())
	if err != nil {
		return models.StagedFile{}, err
	}
	if !validate.IsImageMediaType(mediaType) {
		return models.StagedFile{}, fmt.Errorf("%w: detected %s", ErrNotAnImage, mediaType)
	}
	// Векторное содержимое допускается только в файлах с векторным расширением
	if validate.IsVector(ext) != (mediaType == svgMediaType) {
		return models.StagedFile{}, fmt.Errorf("%w: %s content in .%s file", ErrNotAnImage, mediaType, ext)
	}

	return models.StagedFile{Size: written, MediaType: mediaType}, nil
}

// Process сохраняет файлы запроса под именами, производными от ключевого слова.
// Запрос обрабатывается целиком: при ошибке уже записанные файлы удаляются.
// Временные файлы удаляются в любом случае.
func (s *UploadService) Process(ctx context.Context, req models.UploadRequest) ([]models.NormalizedAsset, error) {
	keyword, files := req.Keyword, req.Files
	defer s.Discard(files)

	if len(files) == 0 {
		return nil, ErrNoFilesProvided
	}
	if keyword == "" {
		return nil, ErrMissingKeyword
	}

	start := time.Now()
	metadata := BuildMetadata(keyword)
	assets := make([]models.NormalizedAsset, 0, len(files))
	written := make([]string, 0, len(files))

	rollback := func() {
		for _, path := range written {
			s.remove(path)
		}
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			rollback()
			return nil, err
		}

		asset, err := s.store(keyword, file)
		if err != nil {
			rollback()
			return nil, &FileError{Name: file.OriginalName, Err: err}
		}
		written = append(written, asset.FilePath)

		asset.Metadata = metadata
		assets = append(assets, asset)
	}

	now := time.Now().UTC()
	records := make([]models.UploadRecord, 0, len(assets))
	for _, asset := range assets {
		records = append(records, models.UploadRecord{
			ID:           uuid.NewString(),
			Keyword:      keyword,
			OriginalName: asset.OriginalName,
			SavedName:    asset.SavedName,
			FilePath:     asset.FilePath,
			Outcome:      asset.Outcome,
			CreatedAt:    now,
		})
	}
	if err := s.journal.SaveBatch(ctx, records); err != nil {
		rollback()
		return nil, fmt.Errorf("error saving upload journal: %w", err)
	}

	s.logger.Info("Upload processed",
		zap.String("keyword", keyword),
		zap.Int("files", len(assets)),
		zap.Duration("duration", time.Since(start)))
	return assets, nil
}

// store переносит один временный файл в каталог загрузок.
func (s *UploadService) store(keyword string, file models.StagedFile) (models.NormalizedAsset, error) {
	ext := validate.Extension(file.OriginalName)
	vector := validate.IsVector(ext)

	if !vector {
		ext = s.normalizer.OutputExtension(ext)
	}
	savedName := s.deriver.Filename(keyword, ext)
	dst := filepath.Join(s.config.UploadDir, savedName)

	var (
		result normalize.Result
		err    error
	)
	if vector {
		result, err = s.normalizer.Relocate(file.TempPath, dst)
	} else {
		result, err = s.normalizer.Normalize(file.TempPath, dst)
	}
	if err != nil {
		return models.NormalizedAsset{}, err
	}

	return models.NormalizedAsset{
		OriginalName: file.OriginalName,
		SavedName:    savedName,
		FilePath:     result.Path,
		Outcome:      result.Outcome.String(),
		Optimized:    result.Optimized(),
	}, nil
}

// Discard удаляет временные файлы
func (s *UploadService) Discard(files []models.StagedFile) {
	for _, f := range files {
		if f.TempPath != "" {
			s.remove(f.TempPath)
		}
	}
}

func (s *UploadService) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Failed to remove file", zap.String("path", path), zap.Error(err))
	}
}

// ListUploads возвращает последние записи журнала
func (s *UploadService) ListUploads(ctx context.Context, limit int) ([]models.UploadRecord, error) {
	return s.journal.List(ctx, limit)
}

// GetUpload возвращает запись журнала по имени сохраненного файла
func (s *UploadService) GetUpload(ctx context.Context, savedName string) (models.UploadRecord, error) {
	return s.journal.GetBySavedName(ctx, savedName)
}

// CheckConnection проверяет, что каталог загрузок доступен на запись, а журнал отвечает.
func (s *UploadService) CheckConnection(ctx context.Context) error {
	probe, err := os.CreateTemp(s.config.UploadDir, ".ping_*")
	if err != nil {
		return fmt.Errorf("upload dir is not writable: %w", err)
	}
	closeErr := probe.Close()
	s.remove(probe.Name())
	if closeErr != nil {
		return fmt.Errorf("upload dir is not writable: %w", closeErr)
	}

	if checker, ok := s.journal.(storage.DatabaseChecker); ok {
		if err := checker.CheckConnection(ctx); err != nil {
			return fmt.Errorf("upload journal is unavailable: %w", err)
		}
	}
	return nil
}

// Close закрывает журнал
func (s *UploadService) Close() error {
	return s.journal.Close()
}
