package amqp

import (
	"encoding/json"
	"time"
)

// UploadProcessedMessage announces that an upload batch finished ingestion.
// Consumers re-read the event store; the message carries no event data.
type UploadProcessedMessage struct {
	BatchID    string    `json:"batch_id"`
	TenantID   int64     `json:"tenant_id"`
	Platform   string    `json:"platform"`
	Store      string    `json:"store"`
	StoredRows int       `json:"stored_rows"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewUploadProcessedMessage(batchID string, tenantID int64, platform, store string, storedRows int, status string) *UploadProcessedMessage {
	return &UploadProcessedMessage{
		BatchID:    batchID,
		TenantID:   tenantID,
		Platform:   platform,
		Store:      store,
		StoredRows: storedRows,
		Status:     status,
		Timestamp:  time.Now().UTC(),
	}
}

func (m *UploadProcessedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func UploadProcessedMessageFromJSON(data []byte) (*UploadProcessedMessage, error) {
	var msg UploadProcessedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
