package domain

import (
	"time"

	"github.com/google/uuid"
)

type UploadStatus string

const (
	StatusProcessing UploadStatus = "processing"
	StatusCompleted  UploadStatus = "completed"
	StatusPartial    UploadStatus = "partial"  // some chunks failed
	StatusFailed     UploadStatus = "failed"   // every chunk failed
	StatusUnmapped   UploadStatus = "unmapped" // platform has no store
)

// Upload is the record of one ingested file.
type Upload struct {
	BatchID      uuid.UUID
	TenantID     int64
	Platform     string
	Store        string // empty when the platform is unmapped
	FileName     string
	TotalRows    int
	StoredRows   int
	FailedChunks int
	Status       UploadStatus
	CreatedAt    time.Time
	CompletedAt  time.Time
}

// RawRow is one spreadsheet row keyed by its header cell.
type RawRow map[string]string

// NormalizedEvent is a row mapped onto the revenue event columns.
type NormalizedEvent struct {
	BatchID       uuid.UUID
	Store         string
	OwnerTenantID int64
	Platform      string
	Territory     string
	Artist        string
	Release       string
	Track         string
	ISRC          string
	DateText      string
	AmountText    string
	PlayCount     int64
}
