package usecase

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"royalty-analytics-service/internal/analytics/core/domain"
)

func computeOverview(rows []row) domain.Overview {
	total := decimal.Zero
	var plays int64
	for _, r := range rows {
		total = total.Add(r.amount)
		plays += r.ev.PlayCount
	}

	return domain.Overview{
		TotalRevenue: total.StringFixed(2),
		TotalStreams: int64(len(rows)),
		TotalPlays:   plays,
		TopRelease:   topKey(rows, func(ev domain.RevenueEvent) string { return ev.Release }),
		TopTrack:     topKey(rows, func(ev domain.RevenueEvent) string { return ev.Track }),
		TopArtist:    topKey(rows, func(ev domain.RevenueEvent) string { return ev.Artist }),
	}
}

// topKey is the key with the highest summed revenue. Ties go to the
// lexicographically smallest key; empty keys never win.
func topKey(rows []row, key func(domain.RevenueEvent) string) string {
	sums := make(map[string]decimal.Decimal)
	for _, r := range rows {
		k := strings.TrimSpace(key(r.ev))
		if k == "" {
			continue
		}
		sums[k] = sums[k].Add(r.amount)
	}

	best := ""
	var bestSum decimal.Decimal
	for k, s := range sums {
		if best == "" || s.GreaterThan(bestSum) || (s.Equal(bestSum) && k < best) {
			best, bestSum = k, s
		}
	}
	return best
}

// revenueBy sums revenue per grouped key, highest first, ties by key.
func revenueBy(rows []row, key func(domain.RevenueEvent) string) []keyedSum {
	sums := make(map[string]decimal.Decimal)
	for _, r := range rows {
		k := groupKey(key(r.ev))
		sums[k] = sums[k].Add(r.amount)
	}
	return sortedSums(sums)
}

type keyedSum struct {
	key string
	sum decimal.Decimal
}

func sortedSums(sums map[string]decimal.Decimal) []keyedSum {
	out := make([]keyedSum, 0, len(sums))
	for k, s := range sums {
		out = append(out, keyedSum{key: k, sum: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].sum.Cmp(out[j].sum); c != 0 {
			return c > 0
		}
		return out[i].key < out[j].key
	})
	return out
}

func computePlatformShare(rows []row) []domain.PlatformValue {
	sums := revenueBy(rows, func(ev domain.RevenueEvent) string { return ev.Platform })
	out := make([]domain.PlatformValue, 0, len(sums))
	for _, s := range sums {
		out = append(out, domain.PlatformValue{Platform: s.key, Value: money(s.sum)})
	}
	return out
}

func computeTerritoryRevenue(rows []row) []domain.TerritoryValue {
	sums := revenueBy(rows, func(ev domain.RevenueEvent) string { return ev.Territory })
	out := make([]domain.TerritoryValue, 0, len(sums))
	for _, s := range sums {
		out = append(out, domain.TerritoryValue{Territory: s.key, Value: money(s.sum)})
	}
	return out
}
