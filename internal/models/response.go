package models

// AssetResult описывает один сохраненный файл в ответе.
type AssetResult struct {
	OriginalName string `json:"originalName"`
	SavedName    string `json:"savedName"`
	FilePath     string `json:"filePath"`
	Optimized    bool   `json:"optimized"`
	SEOMetadata
}

// UploadResponse - тело успешного ответа на загрузку.
type UploadResponse struct {
	Success bool          `json:"success"`
	Keyword string        `json:"keyword"`
	Results []AssetResult `json:"results"`
}

// ErrorResponse - тело ответа об ошибке.
type ErrorResponse struct {
	Success          bool     `json:"success"`
	Error            string   `json:"error"`
	Code             string   `json:"code"`
	ReceivedFormKeys []string `json:"received_form_keys,omitempty"`
	ReceivedFileKeys []string `json:"received_file_keys,omitempty"`
	Hint             string   `json:"hint,omitempty"`
}

// NewAssetResult собирает элемент ответа из обработанного файла.
func NewAssetResult(asset NormalizedAsset) AssetResult {
	return AssetResult{
		OriginalName: asset.OriginalName,
		SavedName:    asset.SavedName,
		FilePath:     asset.FilePath,
		Optimized:    asset.Optimized,
		SEOMetadata:  asset.Metadata,
	}
}
