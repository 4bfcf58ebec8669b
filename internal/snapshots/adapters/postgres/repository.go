package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	analyticsdomain "royalty-analytics-service/internal/analytics/core/domain"
	analyticsports "royalty-analytics-service/internal/analytics/core/ports"
	"royalty-analytics-service/internal/platform/database"
	"royalty-analytics-service/internal/snapshots/core/ports"
)

type SnapshotRepository struct {
	db database.DB
}

func NewSnapshotRepository(db database.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

var (
	_ ports.SnapshotStorePort           = (*SnapshotRepository)(nil)
	_ analyticsports.SnapshotReaderPort = (*SnapshotRepository)(nil)
)

// The whole row is written by one statement so readers never observe a
// partially replaced bundle.
const upsertSnapshotSQL = `
INSERT INTO dashboard_snapshots (
    tenant_id,
    overview,
    monthly_revenue,
    platform_share,
    revenue_by_month_platform,
    territory_revenue,
    yearly_streams,
    weekly_streams,
    music_stream_comparison,
    streaming_trends
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (tenant_id) DO UPDATE SET
    overview                  = EXCLUDED.overview,
    monthly_revenue           = EXCLUDED.monthly_revenue,
    platform_share            = EXCLUDED.platform_share,
    revenue_by_month_platform = EXCLUDED.revenue_by_month_platform,
    territory_revenue         = EXCLUDED.territory_revenue,
    yearly_streams            = EXCLUDED.yearly_streams,
    weekly_streams            = EXCLUDED.weekly_streams,
    music_stream_comparison   = EXCLUDED.music_stream_comparison,
    streaming_trends          = EXCLUDED.streaming_trends`

const selectSnapshotSQL = `
SELECT
    overview,
    monthly_revenue,
    platform_share,
    revenue_by_month_platform,
    territory_revenue,
    yearly_streams,
    weekly_streams,
    music_stream_comparison,
    streaming_trends
FROM dashboard_snapshots
WHERE tenant_id = $1`

// facetColumns lists the bundle fields in column order.
func facetColumns(b *analyticsdomain.FacetBundle) []any {
	return []any{
		&b.Overview,
		&b.MonthlyRevenue,
		&b.PlatformShare,
		&b.RevenueByMonthPlatform,
		&b.TerritoryRevenue,
		&b.YearlyStreams,
		&b.WeeklyStreams,
		&b.MusicStreamComparison,
		&b.StreamingTrends,
	}
}

func (r *SnapshotRepository) Replace(ctx context.Context, tenantID int64, bundle *analyticsdomain.FacetBundle) error {
	fields := facetColumns(bundle)
	args := make([]any, 0, len(fields)+1)
	args = append(args, tenantID)

	for i, f := range fields {
		raw, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("marshal facet %d: %w", i, err)
		}
		// jsonb parameters go over the wire as text, not bytea
		args = append(args, string(raw))
	}

	_, err := r.db.ExecContext(ctx, upsertSnapshotSQL, args...)
	return err
}

func (r *SnapshotRepository) GetSnapshot(ctx context.Context, tenantID int64) (*analyticsdomain.FacetBundle, bool, error) {
	rows, err := r.db.QueryContext(ctx, selectSnapshotSQL, tenantID)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false, rows.Err()
	}

	raw := make([][]byte, 9)
	dest := make([]any, len(raw))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, false, err
	}

	bundle := &analyticsdomain.FacetBundle{}
	for i, f := range facetColumns(bundle) {
		if err := json.Unmarshal(raw[i], f); err != nil {
			return nil, false, fmt.Errorf("unmarshal facet %d of tenant %d: %w", i, tenantID, err)
		}
	}

	return bundle, true, rows.Err()
}
