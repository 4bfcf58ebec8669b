package fiber

import "time"

type UploadRequest struct {
	TenantID string `validate:"required,numeric"`
	Platform string `validate:"required,max=64"`
	FileName string `validate:"required,max=255"`
}

type UploadResponse struct {
	BatchID      string    `json:"batch_id" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	TenantID     int64     `json:"tenant_id" example:"42"`
	Platform     string    `json:"platform" example:"Spotify"`
	Store        string    `json:"store,omitempty" example:"spotify"`
	FileName     string    `json:"file_name" example:"spotify-2024-01.xlsx"`
	Status       string    `json:"status" example:"completed"`
	TotalRows    int       `json:"total_rows" example:"1200"`
	StoredRows   int       `json:"stored_rows" example:"1200"`
	FailedChunks int       `json:"failed_chunks" example:"0"`
	CreatedAt    time.Time `json:"created_at"`
	CompletedAt  time.Time `json:"completed_at"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_upload"`
	Message string `json:"message,omitempty" example:"unsupported file format"`
}

// IngestRowsRequest carries already-parsed report rows, for connectors that
// pull platform reports over an API instead of uploading files.
type IngestRowsRequest struct {
	TenantID int64               `json:"tenant_id" validate:"required,gt=0"`
	Platform string              `json:"platform" validate:"required,max=64"`
	Source   string              `json:"source" validate:"max=255" example:"spotify-api-2024-01"`
	Rows     []map[string]string `json:"rows" validate:"required,min=1"`
}
