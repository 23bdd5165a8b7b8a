package service

import (
	"errors"
	"fmt"
)

// Ошибки обработки загрузки. Все, кроме перечисленных, считаются внутренними.
var (
	// ErrMissingKeyword - ключевое слово не найдено ни в одном поле формы
	ErrMissingKeyword = errors.New("keyword is required or not found in form")
	// ErrNoFilesProvided - в запросе нет ни одного файла
	ErrNoFilesProvided = errors.New("files are required")
	// ErrDisallowedFileType - расширение файла не входит в белый список
	ErrDisallowedFileType = errors.New("bad file type")
	// ErrNotAnImage - содержимое файла не является изображением
	ErrNotAnImage = errors.New("file content is not an image")
	// ErrFileTooLarge - файл или запрос превышает допустимый размер
	ErrFileTooLarge = errors.New("file is too large")
	// ErrMalformedForm - тело запроса не является multipart-формой
	ErrMalformedForm = errors.New("malformed multipart form")
)

// FileError связывает ошибку с именем файла, на котором она возникла.
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// IsClientError сообщает, вызвана ли ошибка содержимым запроса.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingKeyword) ||
		errors.Is(err, ErrNoFilesProvided) ||
		errors.Is(err, ErrDisallowedFileType) ||
		errors.Is(err, ErrNotAnImage) ||
		errors.Is(err, ErrMalformedForm)
}
