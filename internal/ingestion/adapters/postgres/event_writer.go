package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"royalty-analytics-service/internal/ingestion/core/domain"
	"royalty-analytics-service/internal/ingestion/core/ports"
	"royalty-analytics-service/internal/platform/database"
)

const eventColumns = 12

const insertEventsPrefix = `
INSERT INTO revenue_events (
    batch_id,
    source_store,
    owner_tenant_id,
    platform,
    territory,
    artist,
    release,
    track,
    isrc,
    date_text,
    amount_text,
    play_count
) VALUES `

// EventWriter appends a chunk of events with one multi-row INSERT, so a
// chunk lands entirely or not at all.
type EventWriter struct {
	db database.DB
}

func NewEventWriter(db database.DB) *EventWriter {
	return &EventWriter{db: db}
}

var _ ports.EventWriterPort = (*EventWriter)(nil)

func (w *EventWriter) InsertEvents(ctx context.Context, events []domain.NormalizedEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(events)*eventColumns)
	for _, e := range events {
		args = append(args,
			e.BatchID,
			e.Store,
			e.OwnerTenantID,
			e.Platform,
			e.Territory,
			e.Artist,
			e.Release,
			e.Track,
			e.ISRC,
			e.DateText,
			e.AmountText,
			e.PlayCount,
		)
	}

	query := insertEventsPrefix + placeholders(len(events), eventColumns)
	res, err := w.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

const insertRawRowsPrefix = `
INSERT INTO raw_upload_rows (batch_id, platform, payload) VALUES `

// RawRowWriter keeps rows of unmapped platforms verbatim as JSON.
type RawRowWriter struct {
	db database.DB
}

func NewRawRowWriter(db database.DB) *RawRowWriter {
	return &RawRowWriter{db: db}
}

var _ ports.RawRowWriterPort = (*RawRowWriter)(nil)

func (w *RawRowWriter) InsertRawRows(ctx context.Context, batchID uuid.UUID, platform string, rows []domain.RawRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(rows)*3)
	for i, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return 0, fmt.Errorf("marshal raw row %d: %w", i, err)
		}
		args = append(args, batchID, platform, string(payload))
	}

	res, err := w.db.ExecContext(ctx, insertRawRowsPrefix+placeholders(len(rows), 3), args...)
	if err != nil {
		return 0, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// placeholders renders "($1, $2), ($3, $4)" for rows x cols parameters.
func placeholders(rows, cols int) string {
	var b strings.Builder
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(",\n")
		}
		b.WriteByte('(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}
