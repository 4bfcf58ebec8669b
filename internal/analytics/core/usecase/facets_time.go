package usecase

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"royalty-analytics-service/internal/analytics/core/domain"
)

const windowMonths = 12

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func monthIndex(window []time.Time) map[string]int {
	idx := make(map[string]int, len(window))
	for i, m := range window {
		idx[m.Format(domain.MonthLayout)] = i
	}
	return idx
}

func computeMonthlyRevenue(rows []row, now time.Time) []domain.MonthlyRevenue {
	window := trailingMonths(now, windowMonths)
	idx := monthIndex(window)

	sums := make([]decimal.Decimal, len(window))
	for _, r := range rows {
		if i, ok := idx[r.month]; ok {
			sums[i] = sums[i].Add(r.amount)
		}
	}

	out := make([]domain.MonthlyRevenue, len(window))
	for i, m := range window {
		out[i] = domain.MonthlyRevenue{Month: m.Format(domain.MonthLayout), Revenue: money(sums[i])}
	}
	return out
}

// computeWeeklyStreams counts events per day of the Monday-first week
// containing now.
func computeWeeklyStreams(rows []row, now time.Time) []domain.WeekdayStreams {
	offset := (int(now.Weekday()) + 6) % 7
	monday := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())

	out := make([]domain.WeekdayStreams, 7)
	idx := make(map[string]int, 7)
	for i := range out {
		d := monday.AddDate(0, 0, i).Format(dayLayout)
		out[i] = domain.WeekdayStreams{Day: weekdayLabels[i], Date: d}
		idx[d] = i
	}

	for _, r := range rows {
		if i, ok := idx[r.day]; ok {
			out[i].Streams++
		}
	}
	return out
}

func computeYearlyStreams(rows []row) domain.YearlyStreams {
	type acc struct {
		streams int64
		revenue decimal.Decimal
	}
	years := make(map[int]*acc)
	for _, r := range rows {
		if r.month == "" {
			continue
		}
		a, ok := years[r.year]
		if !ok {
			a = &acc{}
			years[r.year] = a
		}
		a.streams++
		a.revenue = a.revenue.Add(r.amount)
	}

	keys := make([]int, 0, len(years))
	for y := range years {
		keys = append(keys, y)
	}
	sort.Ints(keys)

	data := make([]domain.YearStreams, 0, len(keys))
	for _, y := range keys {
		data = append(data, domain.YearStreams{Year: y, Streams: years[y].streams, Revenue: money(years[y].revenue)})
	}

	var summary domain.YearOverYear
	switch n := len(data); {
	case n >= 2:
		cur, prev := data[n-1], data[n-2]
		summary = domain.YearOverYear{
			CurrentYear:      cur.Year,
			PreviousYear:     prev.Year,
			CurrentStreams:   cur.Streams,
			PreviousStreams:  prev.Streams,
			PercentageChange: percentageChange(cur.Streams, prev.Streams),
		}
	case n == 1:
		summary = domain.YearOverYear{
			CurrentYear:    data[0].Year,
			PreviousYear:   data[0].Year - 1,
			CurrentStreams: data[0].Streams,
		}
	}

	return domain.YearlyStreams{Data: data, Summary: summary}
}

func percentageChange(cur, prev int64) float64 {
	if prev == 0 {
		return 0
	}
	pct := float64(cur-prev) / float64(prev) * 100
	return math.Round(pct*10) / 10
}

// computeStreamComparison lays the previous and current calendar years side
// by side. Months of the current year after now stay zero.
func computeStreamComparison(rows []row, now time.Time) domain.StreamComparison {
	cy, py := now.Year(), now.Year()-1
	currentMonth := int(now.Month())

	var (
		curStreams, prevStreams [12]int64
		curRevenue, prevRevenue [12]decimal.Decimal
	)
	for _, r := range rows {
		if r.month == "" {
			continue
		}
		i := r.monthNum - 1
		switch {
		case r.year == cy && r.monthNum <= currentMonth:
			curStreams[i]++
			curRevenue[i] = curRevenue[i].Add(r.amount)
		case r.year == py:
			prevStreams[i]++
			prevRevenue[i] = prevRevenue[i].Add(r.amount)
		}
	}

	months := make([]string, 12)
	for i := range months {
		months[i] = time.Month(i + 1).String()[:3]
	}

	return domain.StreamComparison{
		Months:       months,
		PreviousYear: yearSeries(py, prevStreams, prevRevenue),
		CurrentYear:  yearSeries(cy, curStreams, curRevenue),
	}
}

func yearSeries(year int, streams [12]int64, revenue [12]decimal.Decimal) domain.YearSeries {
	s := domain.YearSeries{Year: year, Streams: make([]int64, 12), Revenue: make([]float64, 12)}
	for i := 0; i < 12; i++ {
		s.Streams[i] = streams[i]
		s.Revenue[i] = money(revenue[i])
	}
	return s
}

func computeRevenueByMonthPlatform(rows []row, now time.Time) []domain.MonthPlatformRevenue {
	window := trailingMonths(now, windowMonths)
	idx := monthIndex(window)

	perMonth := make([]map[string]decimal.Decimal, len(window))
	for i := range perMonth {
		perMonth[i] = make(map[string]decimal.Decimal)
	}
	for _, r := range rows {
		i, ok := idx[r.month]
		if !ok {
			continue
		}
		k := groupKey(r.ev.Platform)
		perMonth[i][k] = perMonth[i][k].Add(r.amount)
	}

	out := make([]domain.MonthPlatformRevenue, len(window))
	for i, m := range window {
		sums := sortedSums(perMonth[i])
		platforms := make([]domain.PlatformValue, 0, len(sums))
		for _, s := range sums {
			platforms = append(platforms, domain.PlatformValue{Platform: s.key, Value: money(s.sum)})
		}
		out[i] = domain.MonthPlatformRevenue{
			Month:     m.Format(domain.MonthLayout),
			Label:     m.Format(labelLayout),
			Platforms: platforms,
		}
	}
	return out
}

func computeStreamingTrends(rows []row, now time.Time) domain.StreamingTrends {
	window := trailingMonths(now, windowMonths)
	idx := monthIndex(window)

	perMonth := make([]map[string]int64, len(window))
	for i := range perMonth {
		perMonth[i] = make(map[string]int64)
	}
	totals := make([]int64, len(window))
	seen := make(map[string]struct{})

	for _, r := range rows {
		i, ok := idx[r.month]
		if !ok {
			continue
		}
		k := groupKey(r.ev.Platform)
		perMonth[i][k]++
		totals[i]++
		seen[k] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)

	data := make([]domain.TrendMonth, len(window))
	for i, m := range window {
		keys := make([]string, 0, len(perMonth[i]))
		for k := range perMonth[i] {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		platforms := make([]domain.PlatformStreams, 0, len(keys))
		for _, k := range keys {
			platforms = append(platforms, domain.PlatformStreams{Platform: k, Streams: perMonth[i][k]})
		}
		data[i] = domain.TrendMonth{
			Month:     m.Format(domain.MonthLayout),
			Label:     m.Format(labelLayout),
			Streams:   totals[i],
			Platforms: platforms,
		}
	}

	return domain.StreamingTrends{
		Platforms: append([]string{"All"}, names...),
		Data:      data,
		Period:    data[0].Label + " - " + data[len(data)-1].Label,
	}
}
