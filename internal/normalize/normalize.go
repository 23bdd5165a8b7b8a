// Package normalize приводит загруженные изображения к каноническому виду:
// непрозрачное RGB, ограниченный размер, повторное кодирование с фиксированным качеством.
// Если изображение обработать не удалось, исходные байты копируются без изменений,
// поэтому загрузка никогда не теряется.
package normalize

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	// WebP регистрируется для декодирования через image.Decode
	_ "golang.org/x/image/webp"
)

// Значения по умолчанию для Options.
const (
	DefaultQuality      = 80
	DefaultMaxDimension = 2000
	DefaultMaxPixels    = 50_000_000
)

// Format задает политику выходного формата.
type Format string

const (
	// FormatOriginal кодирует в формат, соответствующий расширению файла назначения.
	FormatOriginal Format = "original"
	// FormatJPEG всегда кодирует в JPEG.
	FormatJPEG Format = "jpeg"
)

var (
	// ErrUnknownFormat возвращается ParseFormat для неизвестной политики.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrTooManyPixels - заголовок изображения объявляет больше MaxPixels пикселей.
	ErrTooManyPixels = errors.New("image has too many pixels")
)

// ParseFormat разбирает название политики выходного формата.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatOriginal:
		return FormatOriginal, nil
	case FormatJPEG, "jpg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Outcome описывает, каким путем файл попал в место назначения.
type Outcome int

const (
	// Normalized - изображение перекодировано.
	Normalized Outcome = iota + 1
	// Fallback - обработка не удалась, скопированы исходные байты.
	Fallback
	// Passthrough - файл намеренно скопирован без обработки (вектор).
	Passthrough
)

func (o Outcome) String() string {
	switch o {
	case Normalized:
		return "normalized"
	case Fallback:
		return "fallback"
	case Passthrough:
		return "passthrough"
	}
	return "unknown"
}

// Result - результат нормализации одного файла.
type Result struct {
	Outcome Outcome
	Path    string
	// Cause - причина перехода на Fallback.
	Cause error
}

// Optimized сообщает, было ли изображение перекодировано.
func (r Result) Optimized() bool {
	return r.Outcome == Normalized
}

// Options настраивает нормализатор.
type Options struct {
	Quality      int    // Качество JPEG, 1-100
	MaxDimension int    // Максимальная сторона в пикселях, 0 - без ограничения
	MaxPixels    int64  // Предел ширина*высота до декодирования, 0 - без ограничения
	Format       Format // Политика выходного формата
}

// DefaultOptions возвращает настройки по умолчанию.
func DefaultOptions() Options {
	return Options{
		Quality:      DefaultQuality,
		MaxDimension: DefaultMaxDimension,
		MaxPixels:    DefaultMaxPixels,
		Format:       FormatOriginal,
	}
}

// Normalizer выполняет нормализацию изображений.
type Normalizer struct {
	opts   Options
	logger *zap.Logger
}

// New создает Normalizer. Некорректное качество заменяется значением по умолчанию.
func New(opts Options, logger *zap.Logger) *Normalizer {
	if opts.Quality < 1 || opts.Quality > 100 {
		opts.Quality = DefaultQuality
	}
	if opts.Format == "" {
		opts.Format = FormatOriginal
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{opts: opts, logger: logger}
}

// OutputExtension возвращает расширение итогового файла для исходного расширения.
func (n *Normalizer) OutputExtension(ext string) string {
	if n.opts.Format == FormatJPEG {
		return "jpg"
	}
	return ext
}

// Normalize декодирует src, приводит его к непрозрачному RGB и записывает в dst.
// Ошибки декодирования и кодирования не возвращаются: вместо них исходный файл
// копируется в dst, а результат помечается как Fallback.
// Ошибка возвращается только если не удалось и копирование.
func (n *Normalizer) Normalize(src, dst string) (Result, error) {
	err := n.normalize(src, dst)
	if err == nil {
		return Result{Outcome: Normalized, Path: dst}, nil
	}

	n.logger.Warn("Image normalization failed, storing original bytes",
		zap.String("source", src),
		zap.String("destination", dst),
		zap.Error(err))

	if copyErr := copyFile(src, dst); copyErr != nil {
		return Result{}, fmt.Errorf("fallback copy to %s: %w", dst, errors.Join(err, copyErr))
	}
	return Result{Outcome: Fallback, Path: dst, Cause: err}, nil
}

// Relocate копирует src в dst без обработки.
// Существующий dst не перезаписывается.
func (n *Normalizer) Relocate(src, dst string) (Result, error) {
	if err := copyFile(src, dst); err != nil {
		return Result{}, fmt.Errorf("relocate to %s: %w", dst, err)
	}
	return Result{Outcome: Passthrough, Path: dst}, nil
}

func (n *Normalizer) normalize(src, dst string) error {
	format, err := n.targetFormat(dst)
	if err != nil {
		return err
	}

	if err := n.checkPixels(src); err != nil {
		return err
	}

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	img = flatten(img)

	if limit := n.opts.MaxDimension; limit > 0 {
		b := img.Bounds()
		if b.Dx() > limit || b.Dy() > limit {
			img = imaging.Fit(img, limit, limit, imaging.Lanczos)
		}
	}

	return n.encode(img, dst, format)
}

// checkPixels читает только заголовок: декодер выделяет память под все пиксели сразу.
func (n *Normalizer) checkPixels(src string) error {
	if n.opts.MaxPixels <= 0 {
		return nil
	}
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > n.opts.MaxPixels {
		return fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}
	return nil
}

func (n *Normalizer) targetFormat(dst string) (imaging.Format, error) {
	if n.opts.Format == FormatJPEG {
		return imaging.JPEG, nil
	}
	format, err := imaging.FormatFromFilename(dst)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", filepath.Ext(dst), err)
	}
	return format, nil
}

func (n *Normalizer) encode(img image.Image, dst string, format imaging.Format) (err error) {
	f, err := createExclusive(dst)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if err := imaging.Encode(f, img, format,
		imaging.JPEGQuality(n.opts.Quality),
		imaging.PNGCompressionLevel(png.BestCompression),
	); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// flatten убирает прозрачность, накладывая изображение на белый фон.
// Непрозрачные изображения просто переводятся в NRGBA.
func flatten(img image.Image) *image.NRGBA {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return imaging.Clone(img)
	}
	b := img.Bounds()
	background := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := createExclusive(dst)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// createExclusive создает dst и возвращает ошибку, если файл уже существует.
func createExclusive(dst string) (*os.File, error) {
	return os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}
