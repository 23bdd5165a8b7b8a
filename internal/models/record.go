package models

import "time"

// UploadRecord - запись журнала загрузок.
type UploadRecord struct {
	ID           string    `json:"id"`
	Keyword      string    `json:"keyword"`
	OriginalName string    `json:"original_name"`
	SavedName    string    `json:"saved_name"`
	FilePath     string    `json:"file_path"`
	Outcome      string    `json:"outcome"`
	CreatedAt    time.Time `json:"created_at"`
}
