package postgres

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lib/pq"

	"royalty-analytics-service/internal/analytics/core/domain"
	"royalty-analytics-service/internal/analytics/core/ports"
	"royalty-analytics-service/internal/platform/database"
)

type EventRepository struct {
	db database.DB
}

func NewEventRepository(db database.DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventReaderPort = (*EventRepository)(nil)

const selectEventsSQL = `
SELECT
    owner_tenant_id,
    COALESCE(platform, ''),
    COALESCE(territory, ''),
    COALESCE(artist, ''),
    COALESCE(release, ''),
    COALESCE(track, ''),
    COALESCE(isrc, ''),
    COALESCE(date_text, ''),
    COALESCE(amount_text, ''),
    play_count
FROM revenue_events
WHERE `

// ScanEvents reads every event visible to q.Scope. Search and the month
// range are applied as a pre-filter; rows with unusable dates are kept only
// when no month bound is set.
func (r *EventRepository) ScanEvents(ctx context.Context, q domain.EventQuery) ([]domain.RevenueEvent, error) {
	if !q.Scope.Unrestricted && len(q.Scope.OwnerIDs) == 0 {
		return []domain.RevenueEvent{}, nil
	}

	where, args := buildWhere(q)

	rows, err := r.db.QueryContext(ctx, selectEventsSQL+where+"\nORDER BY id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.RevenueEvent, 0)
	for rows.Next() {
		var e domain.RevenueEvent
		if err := rows.Scan(
			&e.OwnerTenantID,
			&e.Platform,
			&e.Territory,
			&e.Artist,
			&e.Release,
			&e.Track,
			&e.ISRC,
			&e.DateText,
			&e.AmountText,
			&e.PlayCount,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func buildWhere(q domain.EventQuery) (string, []any) {
	conds := []string{"TRUE"}
	var args []any
	argIndex := 1

	if !q.Scope.Unrestricted {
		conds = append(conds, fmt.Sprintf("owner_tenant_id = ANY($%d)", argIndex))
		args = append(args, pq.Array(q.Scope.OwnerIDs))
		argIndex++
	}

	// Non-ASCII search text is left to the in-memory filter, since ILIKE
	// case folding depends on the database collation.
	if q.SearchText != "" && isASCII(q.SearchText) {
		conds = append(conds, fmt.Sprintf(
			"(artist ILIKE $%[1]d OR release ILIKE $%[1]d OR track ILIKE $%[1]d)", argIndex))
		args = append(args, "%"+escapeLike(q.SearchText)+"%")
		argIndex++
	}

	if q.FromMonth != "" {
		conds = append(conds, fmt.Sprintf("left(" + trimmedDate + ", 7) >= $%d", argIndex))
		args = append(args, q.FromMonth)
		argIndex++
	}

	if q.ToMonth != "" {
		conds = append(conds, fmt.Sprintf("left(" + trimmedDate + ", 7) <= $%d", argIndex))
		args = append(args, q.ToMonth)
	}

	return strings.Join(conds, " AND "), args
}

// trimmedDate strips the same characters as domain.DateTrimSet.
const trimmedDate = `btrim(date_text, E' \t\r\n\x0B\f')`

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
