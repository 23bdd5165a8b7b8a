package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
)

// JSONConfig - содержимое JSON-файла конфигурации.
// Указатели позволяют отличить отсутствующее поле от нулевого значения.
type JSONConfig struct {
	ServerAddress      *string  `json:"server_address,omitempty"`
	UploadDir          *string  `json:"upload_dir,omitempty"`
	TempDir            *string  `json:"temp_dir,omitempty"`
	KeywordFields      []string `json:"keyword_fields,omitempty"`
	AllowedExtensions  []string `json:"allowed_extensions,omitempty"`
	FallbackSlug       *string  `json:"fallback_slug,omitempty"`
	OutputFormat       *string  `json:"output_format,omitempty"`
	Quality            *int     `json:"image_quality,omitempty"`
	MaxDimension       *int     `json:"max_dimension,omitempty"`
	MaxPixels          *int64   `json:"max_pixels,omitempty"`
	MaxFileBytes       *int64   `json:"max_file_bytes,omitempty"`
	MaxRequestBytes    *int64   `json:"max_request_bytes,omitempty"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins,omitempty"`
	JournalFilePath    *string  `json:"journal_file_path,omitempty"`
	JournalMemoryLimit *int     `json:"journal_memory_limit,omitempty"`
	DatabaseDSN        *string  `json:"database_dsn,omitempty"`
	EnableDebug        *bool    `json:"enable_debug,omitempty"`
	EnableHTTPS        *bool    `json:"enable_https,omitempty"`
	TLSCertFile        *string  `json:"tls_cert_file,omitempty"`
	TLSKeyFile         *string  `json:"tls_key_file,omitempty"`
	ShutdownTimeout    *string  `json:"shutdown_timeout,omitempty"`
}

// loadJSONConfig читает JSON-файл конфигурации.
// Пустое имя и отсутствующий файл дают пустую конфигурацию без ошибки.
func loadJSONConfig(filename string) (*JSONConfig, error) {
	if filename == "" {
		return &JSONConfig{}, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &JSONConfig{}, nil
		}
		return nil, fmt.Errorf("error reading config file %s: %w", filename, err)
	}

	var cfg JSONConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", filename, err)
	}
	return &cfg, nil
}

// applyJSONConfig переносит заданные в JSON поля в конфигурацию.
func (c *Config) applyJSONConfig(j *JSONConfig) {
	setString(&c.ServerAddress, j.ServerAddress)
	setString(&c.UploadDir, j.UploadDir)
	setString(&c.TempDir, j.TempDir)
	setString(&c.FallbackSlug, j.FallbackSlug)
	setString(&c.OutputFormat, j.OutputFormat)
	setString(&c.JournalFilePath, j.JournalFilePath)
	setString(&c.DatabaseDSN, j.DatabaseDSN)
	setString(&c.TLSCertFile, j.TLSCertFile)
	setString(&c.TLSKeyFile, j.TLSKeyFile)

	if len(j.KeywordFields) > 0 {
		c.KeywordFields = j.KeywordFields
	}
	if len(j.AllowedExtensions) > 0 {
		c.AllowedExtensions = j.AllowedExtensions
	}
	if len(j.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = j.CORSAllowedOrigins
	}

	if j.Quality != nil {
		c.Quality = *j.Quality
	}
	if j.MaxDimension != nil {
		c.MaxDimension = *j.MaxDimension
	}
	if j.MaxPixels != nil {
		c.MaxPixels = *j.MaxPixels
	}
	if j.MaxFileBytes != nil {
		c.MaxFileBytes = *j.MaxFileBytes
	}
	if j.MaxRequestBytes != nil {
		c.MaxRequestBytes = *j.MaxRequestBytes
	}
	if j.JournalMemoryLimit != nil {
		c.JournalMemoryLimit = *j.JournalMemoryLimit
	}
	if j.EnableDebug != nil {
		c.EnableDebug = *j.EnableDebug
	}
	if j.EnableHTTPS != nil {
		if *j.EnableHTTPS {
			c.EnableHTTPS = strconv.FormatBool(true)
		} else {
			c.EnableHTTPS = ""
		}
	}
	if j.ShutdownTimeout != nil {
		if d, err := time.ParseDuration(*j.ShutdownTimeout); err == nil {
			c.ShutdownTimeout = d
		}
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
