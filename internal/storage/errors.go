package storage

import "errors"

// ErrRecordNotFound возвращается, когда запись не найдена в журнале
var ErrRecordNotFound = errors.New("upload record not found")

// ErrRecordConflict возвращается, когда запись с таким именем файла уже есть
var ErrRecordConflict = errors.New("upload record conflict")
