package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"royalty-analytics-service/internal/analytics/core/domain"
	"royalty-analytics-service/internal/analytics/core/usecase"
	"royalty-analytics-service/internal/platform/clock"
	tenantdomain "royalty-analytics-service/internal/tenants/core/domain"
)

// Wednesday; the week runs 2024-06-10 .. 2024-06-16.
var testNow = time.Date(2024, time.June, 12, 15, 30, 0, 0, time.UTC)

type fakeEventReader struct {
	ScanFn    func(ctx context.Context, q domain.EventQuery) ([]domain.RevenueEvent, error)
	events    []domain.RevenueEvent
	lastQuery domain.EventQuery
	calls     int
}

func (f *fakeEventReader) ScanEvents(ctx context.Context, q domain.EventQuery) ([]domain.RevenueEvent, error) {
	f.calls++
	f.lastQuery = q
	if f.ScanFn != nil {
		return f.ScanFn(ctx, q)
	}
	return f.events, nil
}

func newEngine(reader *fakeEventReader) *usecase.Engine {
	return usecase.NewEngine(reader, clock.Fixed{T: testNow}, time.Second, zap.NewNop())
}

func ev(owner int64, platform, date, amount string) domain.RevenueEvent {
	return domain.RevenueEvent{OwnerTenantID: owner, Platform: platform, DateText: date, AmountText: amount, PlayCount: 1}
}

// ------------------------------------------------------------
// Totals and breakdowns
// ------------------------------------------------------------

func TestEngine_MixedAmounts_TotalsAndPlatformShare(t *testing.T) {
	reader := &fakeEventReader{events: []domain.RevenueEvent{
		ev(5, "Spotify", "2024-01-03", "10.50"),
		ev(5, "Spotify", "2024-01-10", "bad"),
		ev(5, "Apple", "2024-02-01", "5.00"),
	}}

	b, err := newEngine(reader).Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.OwnersScope(5)})
	require.NoError(t, err)

	assert.Equal(t, "15.50", b.Overview.TotalRevenue)
	assert.Equal(t, int64(3), b.Overview.TotalStreams)
	assert.Equal(t, int64(3), b.Overview.TotalPlays)
	assert.Equal(t, []domain.PlatformValue{
		{Platform: "Spotify", Value: 10.50},
		{Platform: "Apple", Value: 5.00},
	}, b.PlatformShare)
}

func TestEngine_UnparseableAmountsContributeZero(t *testing.T) {
	reader := &fakeEventReader{events: []domain.RevenueEvent{
		ev(1, "Spotify", "2024-06-01", ""),
		ev(1, "Spotify", "2024-06-02", "null"),
		ev(1, "Spotify", "2024-06-03", "abc"),
		ev(1, "Spotify", "2024-06-04", "  2.25 "),
	}}

	b, err := newEngine(reader).Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.NoError(t, err)

	assert.Equal(t, "2.25", b.Overview.TotalRevenue)
	assert.Equal(t, 2.25, b.MonthlyRevenue[11].Revenue)
	assert.Equal(t, int64(4), b.StreamingTrends.Data[11].Streams)
}

func TestEngine_OutOfRangeAmounts_BundleStillMarshals(t *testing.T) {
	reader := &fakeEventReader{events: []domain.RevenueEvent{
		ev(1, "Spotify", "2024-06-01", "1e400"),
		ev(1, "Spotify", "2024-06-02", "-1e400"),
		ev(1, "Spotify", "2024-06-03", "1e-20000000"),
		ev(1, "Spotify", "2024-06-04", "3.00"),
	}}

	b, err := newEngine(reader).Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.NoError(t, err)

	assert.Equal(t, "3.00", b.Overview.TotalRevenue)
	assert.Equal(t, []domain.PlatformValue{{Platform: "Spotify", Value: 3}}, b.PlatformShare)
	assert.Equal(t, 3.0, b.MonthlyRevenue[11].Revenue)

	_, err = json.Marshal(b)
	require.NoError(t, err)
}

func TestEngine_TopKeys_TieGoesToSmallestKey(t *testing.T) {
	reader := &fakeEventReader{events: []domain.RevenueEvent{
		{OwnerTenantID: 1, Artist: "Beta", Release: "R2", Track: "T1", AmountText: "3"},
		{OwnerTenantID: 1, Artist: "Alpha", Release: "R1", Track: "T1", AmountText: "3"},
		{OwnerTenantID: 1, Artist: "", Release: "R1", Track: "", AmountText: "100"},
	}}

	b, err := newEngine(reader).Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.NoError(t, err)

	assert.Equal(t, "Alpha", b.Overview.TopArtist)
	assert.Equal(t, "R1", b.Overview.TopRelease)
	assert.Equal(t, "T1", b.Overview.TopTrack)
}

func TestEngine_TerritoryRevenue_EmptyKeyIsUnknown(t *testing.T) {
	reader := &fakeEventReader{events: []domain.RevenueEvent{
		{OwnerTenantID: 1, Territory: "DE", AmountText: "1"},
		{OwnerTenantID: 1, Territory: "", AmountText: "4"},
		{OwnerTenantID: 1, Territory: "US", AmountText: "1"},
	}}

	b, err := newEngine(reader).Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.NoError(t, err)

	assert.Equal(t, []domain.TerritoryValue{
		{Territory: "Unknown", Value: 4},
		{Territory: "DE", Value: 1},
		{Territory: "US", Value: 1},
	}, b.TerritoryRevenue)
}

// ------------------------------------------------------------
// Time series
// ------------------------------------------------------------

func TestEngine_MonthlyRevenue_DenseTwelveMonths(t *testing.T) {
	reader := &fakeEventReader{events: []domain.RevenueEvent{
		ev(1, "Spotify", "2024-03-15", "7"),
		ev(1, "Spotify", "2023-06-30", "99"), // outside the window
		ev(1, "Spotify", "not a date", "5"),
	}}

	b, err := newEngine(reader).Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.NoError(t, err)

	require.Len(t, b.MonthlyRevenue, 12)
	assert.Equal(t, "2023-07", b.MonthlyRevenue[0].Month)
	assert.Equal(t, "2024-06", b.MonthlyRevenue[11].Month)
	for i := 1; i < len(b.MonthlyRevenue); i++ {
		assert.Less(t, b.MonthlyRevenue[i-1].Month, b.MonthlyRevenue[i].Month)
	}
	assert.Equal(t, 7.0, b.MonthlyRevenue[8].Revenue)

	// undated events still count in totals
	assert.Equal(t, "111.00", b.Overview.TotalRevenue)
}

func TestEngine_WeeklyStreams_MondayToSunday(t *testing.T) {
	reader := &fakeEventReader{events: []domain.RevenueEvent{
		ev(1, "Spotify", "2024-06-10", "1"),
		ev(1, "Spotify", "2024-06-12T08:00:00Z", "1"),
		ev(1, "Spotify", "2024-06-12", "1"),
		ev(1, "Spotify", "2024-06-17", "1"), // next week
		ev(1, "Spotify", "2024-06", "1"),    // no day precision
	}}

	b, err := newEngine(reader).Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.NoError(t, err)

	require.Len(t, b.WeeklyStreams, 7)
	assert.Equal(t, domain.WeekdayStreams{Day: "Mon", Date: "2024-06-10", Streams: 1}, b.WeeklyStreams[0])
	assert.Equal(t, domain.WeekdayStreams{Day: "Wed", Date: "2024-06-12", Streams: 2}, b.WeeklyStreams[2])
	assert.Equal(t, domain.WeekdayStreams{Day: "Sun", Date: "2024-06-16", Streams: 0}, b.WeeklyStreams[6])
}

func TestEngine_WeeklyStreams_SundayBelongsToPreviousMonday(t *testing.T) {
	sunday := time.Date(2024, time.June, 16, 23, 0, 0, 0, time.UTC)
	e := usecase.NewEngine(&fakeEventReader{}, clock.Fixed{T: sunday}, time.Second, zap.NewNop())

	b, err := e.Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.NoError(t, err)

	assert.Equal(t, "2024-06-10", b.WeeklyStreams[0].Date)
	assert.Equal(t, "2024-06-16", b.WeeklyStreams[6].Date)
}

func TestEngine_StreamComparison_FutureMonthsAreZero(t *testing.T) {
	reader := &fakeEventReader{events: []domain.RevenueEvent{
		ev(1, "Spotify", "2024-06-01", "2"),
		ev(1, "Spotify", "2024-09-01", "3"), // after now
		ev(1, "Spotify", "2023-09-01", "4"),
	}}

	b, err := newEngine(reader).Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.NoError(t, err)

	cmp := b.MusicStreamComparison
	assert.Equal(t, 2024, cmp.CurrentYear.Year)
	assert.Equal(t, 2023, cmp.PreviousYear.Year)
	require.Len(t, cmp.CurrentYear.Streams, 12)
	require.Len(t, cmp.Months, 12)
	assert.Equal(t, "Jan", cmp.Months[0])

	assert.Equal(t, int64(1), cmp.CurrentYear.Streams[5])
	for i := 6; i < 12; i++ {
		assert.Zero(t, cmp.CurrentYear.Streams[i], "month index %d", i)
		assert.Zero(t, cmp.CurrentYear.Revenue[i], "month index %d", i)
	}
	assert.Equal(t, int64(1), cmp.PreviousYear.Streams[8])
	assert.Equal(t, 4.0, cmp.PreviousYear.Revenue[8])
}

func TestEngine_YearlyStreams_ComparesTwoMostRecentYears(t *testing.T) {
	reader := &fakeEventReader{events: []domain.RevenueEvent{
		ev(1, "Spotify", "2021-01-01", "1"),
		ev(1, "Spotify", "2023-01-01", "1"),
		ev(1, "Spotify", "2023-02-01", "1"),
		ev(1, "Spotify", "2023-03-01", "1"),
		ev(1, "Spotify", "2024-01-01", "1"),
	}}

	b, err := newEngine(reader).Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.NoError(t, err)

	require.Len(t, b.YearlyStreams.Data, 3)
	assert.Equal(t, 2021, b.YearlyStreams.Data[0].Year)
	assert.Equal(t, domain.YearOverYear{
		CurrentYear:      2024,
		PreviousYear:     2023,
		CurrentStreams:   1,
		PreviousStreams:  3,
		PercentageChange: -66.7,
	}, b.YearlyStreams.Summary)
}

func TestEngine_StreamingTrends(t *testing.T) {
	reader := &fakeEventReader{events: []domain.RevenueEvent{
		ev(1, "Spotify", "2024-05-01", "1"),
		ev(1, "Apple", "2024-05-02", "1"),
		ev(1, "Spotify", "2024-06-01", "1"),
		ev(1, "", "2024-06-02", "1"),
	}}

	b, err := newEngine(reader).Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.NoError(t, err)

	tr := b.StreamingTrends
	assert.Equal(t, []string{"All", "Apple", "Spotify", "Unknown"}, tr.Platforms)
	require.Len(t, tr.Data, 12)
	assert.Equal(t, "Jul 2023 - Jun 2024", tr.Period)
	assert.Equal(t, "May 2024", tr.Data[10].Label)
	assert.Equal(t, int64(2), tr.Data[10].Streams)
	assert.Equal(t, []domain.PlatformStreams{
		{Platform: "Apple", Streams: 1},
		{Platform: "Spotify", Streams: 1},
	}, tr.Data[10].Platforms)
}

func TestEngine_RevenueByMonthPlatform(t *testing.T) {
	reader := &fakeEventReader{events: []domain.RevenueEvent{
		ev(1, "Apple", "2024-06-01", "1.10"),
		ev(1, "Spotify", "2024-06-02", "2.20"),
	}}

	b, err := newEngine(reader).Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.NoError(t, err)

	require.Len(t, b.RevenueByMonthPlatform, 12)
	last := b.RevenueByMonthPlatform[11]
	assert.Equal(t, "2024-06", last.Month)
	assert.Equal(t, "Jun 2024", last.Label)
	assert.Equal(t, []domain.PlatformValue{{Platform: "Spotify", Value: 2.2}, {Platform: "Apple", Value: 1.1}}, last.Platforms)
	assert.Empty(t, b.RevenueByMonthPlatform[0].Platforms)
}

// ------------------------------------------------------------
// Filters
// ------------------------------------------------------------

func TestEngine_AppliesScopeSearchAndMonthRange(t *testing.T) {
	reader := &fakeEventReader{events: []domain.RevenueEvent{
		{OwnerTenantID: 1, Artist: "Night Owls", DateText: "2024-02-10", AmountText: "1"},
		{OwnerTenantID: 1, Track: "OWL song", DateText: "2024-04-10", AmountText: "2"},
		{OwnerTenantID: 1, Track: "owl song", DateText: "2024-05-01", AmountText: "4"}, // after to
		{OwnerTenantID: 1, Release: "Owls", DateText: "", AmountText: "8"},             // undated
		{OwnerTenantID: 2, Artist: "Owl", DateText: "2024-03-01", AmountText: "16"},    // out of scope
		{OwnerTenantID: 1, Artist: "Lark", DateText: "2024-03-01", AmountText: "32"},   // no match
	}}

	q := domain.EventQuery{
		Scope:      tenantdomain.OwnersScope(1),
		SearchText: "owl",
		FromMonth:  "2024-02",
		ToMonth:    "2024-04",
	}
	b, err := newEngine(reader).Compute(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "3.00", b.Overview.TotalRevenue)
	assert.Equal(t, q, reader.lastQuery)
}

// ------------------------------------------------------------
// Failures
// ------------------------------------------------------------

func TestEngine_ReaderError_IsComputationError(t *testing.T) {
	reader := &fakeEventReader{
		ScanFn: func(ctx context.Context, q domain.EventQuery) ([]domain.RevenueEvent, error) {
			return nil, errors.New("connection reset")
		},
	}

	_, err := newEngine(reader).Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrComputation)
}

func TestEngine_Timeout_IsComputationError(t *testing.T) {
	reader := &fakeEventReader{
		ScanFn: func(ctx context.Context, q domain.EventQuery) ([]domain.RevenueEvent, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	e := usecase.NewEngine(reader, clock.Fixed{T: testNow}, 10*time.Millisecond, zap.NewNop())

	_, err := e.Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrComputation)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEngine_TimeoutAfterRead_IsComputationError(t *testing.T) {
	events := make([]domain.RevenueEvent, 10000)
	for i := range events {
		events[i] = ev(1, "Spotify", "2024-06-01", "1.00")
	}
	reader := &fakeEventReader{
		// The read itself succeeds, but only once the deadline has passed.
		ScanFn: func(ctx context.Context, q domain.EventQuery) ([]domain.RevenueEvent, error) {
			<-ctx.Done()
			return events, nil
		},
	}
	e := usecase.NewEngine(reader, clock.Fixed{T: testNow}, 10*time.Millisecond, zap.NewNop())

	b, err := e.Compute(context.Background(), domain.EventQuery{Scope: tenantdomain.UnrestrictedScope()})
	require.Error(t, err)
	assert.Nil(t, b)
	assert.ErrorIs(t, err, domain.ErrComputation)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ------------------------------------------------------------
// Empty shape
// ------------------------------------------------------------

func TestEmptyBundle_HasEveryFacetAndNoNulls(t *testing.T) {
	b := usecase.EmptyBundle(testNow)

	assert.Equal(t, "0.00", b.Overview.TotalRevenue)
	assert.Len(t, b.MonthlyRevenue, 12)
	assert.Len(t, b.WeeklyStreams, 7)
	assert.Len(t, b.RevenueByMonthPlatform, 12)
	assert.Len(t, b.StreamingTrends.Data, 12)
	assert.Equal(t, []string{"All"}, b.StreamingTrends.Platforms)

	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{
		"overview", "monthlyRevenue", "platformShare", "revenueByMonthPlatform",
		"territoryRevenue", "yearlyStreams", "weeklyStreams",
		"musicStreamComparison", "streamingTrends",
	} {
		require.Contains(t, doc, key)
		assert.NotEqual(t, "null", string(doc[key]), key)
	}
	assert.Equal(t, "[]", string(doc["platformShare"]))
	assert.Contains(t, string(doc["yearlyStreams"]), `"data":[]`)
}
