package entity

// Ingest progress stages reported to the admin screen.
const (
	IngestStageDeleting  = "deleting_old_store"
	IngestStageCreating  = "creating_store"
	IngestStageUploading = "uploading"
	IngestStageDone      = "done"
	IngestStageFailed    = "failed"
)

// IngestProgress is one step of the sequential admin ingestion narrative.
type IngestProgress struct {
	Stage        string `json:"stage"`
	CurrentIndex int    `json:"current_index"`
	Total        int    `json:"total"`
	FileName     string `json:"file_name,omitempty"`
	Error        string `json:"error,omitempty"`
}
