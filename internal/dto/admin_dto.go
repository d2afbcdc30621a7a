package dto

type ValidateKeyRequest struct {
	ApiKey string `json:"api_key" validate:"required"`
}

type ValidateKeyResponse struct {
	Valid bool `json:"valid"`
}

type SaveKeyRequest struct {
	ApiKey string `json:"api_key" validate:"required"`
}

// UploadedFile carries one multipart file from the rebuild request into the
// ingestion sequence.
type UploadedFile struct {
	Name string
	Data []byte
}

type RebuildResponse struct {
	StoreReference string   `json:"store_reference"`
	Documents      []string `json:"documents"`
	Ingested       int      `json:"ingested"`
	Total          int      `json:"total"`
}

type DocumentsResponse struct {
	StoreReference string   `json:"store_reference,omitempty"`
	Documents      []string `json:"documents"`
	Preconfigured  bool     `json:"preconfigured"`
}
