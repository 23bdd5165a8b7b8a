// Package config собирает конфигурацию сервиса из значений по умолчанию,
// JSON-файла, флагов командной строки и переменных окружения.
// Приоритет: значения по умолчанию < JSON-файл < флаги < переменные окружения.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/InQaaaaGit/seo_image.git/internal/normalize"
	"github.com/InQaaaaGit/seo_image.git/internal/slug"
	"github.com/InQaaaaGit/seo_image.git/internal/storage"
	"github.com/InQaaaaGit/seo_image.git/internal/validate"
	"github.com/caarlos0/env/v6"
)

// DefaultKeywordFields - имена полей формы, в которых ищется ключевое слово, по приоритету.
var DefaultKeywordFields = []string{"keyword", "text_1", "text", "q", "query", "title", "name"}

// Config хранит конфигурацию приложения.
type Config struct {
	ServerAddress      string        `env:"SERVER_ADDRESS"`                             // Адрес HTTP-сервера
	UploadDir          string        `env:"UPLOAD_DIR"`                                 // Каталог для сохраненных изображений
	TempDir            string        `env:"TEMP_DIR"`                                   // Каталог для временных файлов, по умолчанию UploadDir
	KeywordFields      []string      `env:"KEYWORD_FIELDS" envSeparator:","`            // Псевдонимы поля с ключевым словом
	AllowedExtensions  []string      `env:"ALLOWED_EXTENSIONS" envSeparator:","`        // Белый список расширений
	FallbackSlug       string        `env:"FALLBACK_SLUG"`                              // Слаг для пустого ключевого слова
	OutputFormat       string        `env:"OUTPUT_FORMAT"`                              // original или jpeg
	Quality            int           `env:"IMAGE_QUALITY"`                              // Качество JPEG, 1-100
	MaxDimension       int           `env:"MAX_DIMENSION"`                              // Максимальная сторона изображения, 0 - без ограничения
	MaxPixels          int64         `env:"MAX_PIXELS"`                                 // Максимум пикселей в декодируемом изображении, 0 - без ограничения
	MaxFileBytes       int64         `env:"MAX_FILE_BYTES"`                             // Максимальный размер одного файла
	MaxRequestBytes    int64         `env:"MAX_REQUEST_BYTES"`                          // Максимальный размер тела запроса
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`      // Разрешенные источники CORS
	JournalFilePath    string        `env:"JOURNAL_FILE_PATH"`                          // Файл журнала загрузок
	JournalMemoryLimit int           `env:"JOURNAL_MEMORY_LIMIT"`                       // Размер журнала в памяти
	DatabaseDSN        string        `env:"DATABASE_DSN"`                               // Строка подключения к PostgreSQL
	EnableDebug        bool          `env:"ENABLE_DEBUG"`                               // Включает эндпоинт /debug
	EnableHTTPS        string        `env:"ENABLE_HTTPS"`                               // Любое непустое значение включает HTTPS
	TLSCertFile        string        `env:"TLS_CERT_FILE"`                              // Путь к сертификату
	TLSKeyFile         string        `env:"TLS_KEY_FILE"`                               // Путь к ключу
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT"`                           // Время на корректную остановку
	ConfigFile         string        `env:"CONFIG"`                                     // Путь к JSON-файлу конфигурации
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() *Config {
	return &Config{
		ServerAddress:      ":5000",
		UploadDir:          "uploads",
		KeywordFields:      append([]string(nil), DefaultKeywordFields...),
		AllowedExtensions:  append([]string(nil), validate.DefaultAllowedExtensions...),
		FallbackSlug:       slug.DefaultFallback,
		OutputFormat:       string(normalize.FormatOriginal),
		Quality:            normalize.DefaultQuality,
		MaxDimension:       normalize.DefaultMaxDimension,
		MaxPixels:          normalize.DefaultMaxPixels,
		MaxFileBytes:       10 << 20,
		MaxRequestBytes:    50 << 20,
		CORSAllowedOrigins: []string{"*"},
		JournalMemoryLimit: storage.DefaultMemoryLimit,
		TLSCertFile:        "server.crt",
		TLSKeyFile:         "server.key",
		ShutdownTimeout:    10 * time.Second,
	}
}

// NewConfig инициализирует конфигурацию из аргументов процесса и окружения.
func NewConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load инициализирует конфигурацию из переданных аргументов и окружения.
func Load(args []string) (*Config, error) {
	// 1. Значения по умолчанию и флаги, чтобы узнать путь к JSON-файлу
	cfg := Default()
	if err := newFlagSet(cfg).Parse(args); err != nil {
		return nil, err
	}

	configFile := cfg.ConfigFile
	if v, ok := os.LookupEnv("CONFIG"); ok && v != "" {
		configFile = v
	}

	// 2. JSON-файл поверх значений по умолчанию, затем флаги поверх JSON
	if configFile != "" {
		jsonConfig, err := loadJSONConfig(configFile)
		if err != nil {
			return nil, err
		}
		cfg = Default()
		cfg.applyJSONConfig(jsonConfig)
		if err := newFlagSet(cfg).Parse(args); err != nil {
			return nil, err
		}
		cfg.ConfigFile = configFile
	}

	// 3. Переменные окружения имеют наивысший приоритет
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFlagSet(cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("imageserver", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerAddress, "a", cfg.ServerAddress, "Адрес запуска HTTP-сервера (env: SERVER_ADDRESS)")
	fs.StringVar(&cfg.UploadDir, "u", cfg.UploadDir, "Каталог для изображений (env: UPLOAD_DIR)")
	fs.StringVar(&cfg.TempDir, "t", cfg.TempDir, "Каталог для временных файлов (env: TEMP_DIR)")
	fs.Func("k", "Псевдонимы поля ключевого слова через запятую (env: KEYWORD_FIELDS)", func(s string) error {
		cfg.KeywordFields = splitList(s)
		return nil
	})
	fs.Func("e", "Разрешенные расширения через запятую (env: ALLOWED_EXTENSIONS)", func(s string) error {
		cfg.AllowedExtensions = splitList(s)
		return nil
	})
	fs.StringVar(&cfg.OutputFormat, "o", cfg.OutputFormat, "Выходной формат: original или jpeg (env: OUTPUT_FORMAT)")
	fs.IntVar(&cfg.Quality, "q", cfg.Quality, "Качество JPEG 1-100 (env: IMAGE_QUALITY)")
	fs.IntVar(&cfg.MaxDimension, "m", cfg.MaxDimension, "Максимальная сторона изображения (env: MAX_DIMENSION)")
	fs.Int64Var(&cfg.MaxPixels, "max-pixels", cfg.MaxPixels, "Максимум пикселей в изображении (env: MAX_PIXELS)")
	fs.Int64Var(&cfg.MaxFileBytes, "max-file", cfg.MaxFileBytes, "Максимальный размер файла (env: MAX_FILE_BYTES)")
	fs.StringVar(&cfg.JournalFilePath, "j", cfg.JournalFilePath, "Файл журнала загрузок (env: JOURNAL_FILE_PATH)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "Строка подключения к PostgreSQL (env: DATABASE_DSN)")
	fs.BoolVar(&cfg.EnableDebug, "debug", cfg.EnableDebug, "Включить эндпоинт /debug (env: ENABLE_DEBUG)")
	fs.Func("s", "Включить HTTPS (env: ENABLE_HTTPS)", func(s string) error {
		cfg.EnableHTTPS = s
		return nil
	})
	fs.StringVar(&cfg.ConfigFile, "c", cfg.ConfigFile, "Путь к JSON-файлу конфигурации (env: CONFIG)")

	return fs
}

// IsHTTPSEnabled сообщает, нужно ли запускать HTTPS-сервер.
func (c *Config) IsHTTPSEnabled() bool {
	return c.EnableHTTPS != ""
}

// TempDirectory возвращает каталог для временных файлов.
func (c *Config) TempDirectory() string {
	if c.TempDir != "" {
		return c.TempDir
	}
	return c.UploadDir
}

// Format возвращает разобранную политику выходного формата.
func (c *Config) Format() normalize.Format {
	format, err := normalize.ParseFormat(c.OutputFormat)
	if err != nil {
		return normalize.FormatOriginal
	}
	return format
}

// Validate проверяет согласованность значений.
func (c *Config) Validate() error {
	var errs []error
	if c.ServerAddress == "" {
		errs = append(errs, errors.New("server address is required"))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("upload dir is required"))
	}
	if c.Quality < 1 || c.Quality > 100 {
		errs = append(errs, fmt.Errorf("image quality must be in 1..100, got %d", c.Quality))
	}
	if c.MaxDimension < 0 {
		errs = append(errs, fmt.Errorf("max dimension must not be negative, got %d", c.MaxDimension))
	}
	if c.MaxPixels < 0 {
		errs = append(errs, fmt.Errorf("max pixels must not be negative, got %d", c.MaxPixels))
	}
	if c.MaxFileBytes <= 0 {
		errs = append(errs, fmt.Errorf("max file size must be positive, got %d", c.MaxFileBytes))
	}
	if c.MaxRequestBytes < c.MaxFileBytes {
		errs = append(errs, fmt.Errorf("max request size %d is smaller than max file size %d", c.MaxRequestBytes, c.MaxFileBytes))
	}
	if _, err := normalize.ParseFormat(c.OutputFormat); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
