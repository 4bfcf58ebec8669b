package usecase

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"royalty-analytics-service/internal/ingestion/core/domain"
)

// rowNormalizer maps raw rows of one upload onto revenue event columns.
type rowNormalizer struct {
	strategy domain.PlatformStrategy
	batchID  uuid.UUID
	tenantID int64
}

func (n rowNormalizer) normalize(row domain.RawRow) domain.NormalizedEvent {
	lookup := lowerKeys(row)
	get := func(f domain.Field) string {
		for _, header := range n.strategy.Columns[f] {
			if v, ok := lookup[strings.ToLower(strings.TrimSpace(header))]; ok {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	return domain.NormalizedEvent{
		BatchID:       n.batchID,
		Store:         n.strategy.Store,
		OwnerTenantID: n.tenantID,
		Platform:      n.strategy.Name,
		Territory:     get(domain.FieldTerritory),
		Artist:        get(domain.FieldArtist),
		Release:       get(domain.FieldRelease),
		Track:         get(domain.FieldTrack),
		ISRC:          get(domain.FieldISRC),
		DateText:      get(domain.FieldDate),
		AmountText:    get(domain.FieldAmount),
		PlayCount:     parseCount(get(domain.FieldPlayCount)),
	}
}

func lowerKeys(row domain.RawRow) map[string]string {
	out := make(map[string]string, len(row))
	for k, v := range row {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

// parseCount accepts "1,234" and "12.0"; anything else is 0.
func parseCount(s string) int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int64(f)
	}
	return 0
}

func chunks[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
