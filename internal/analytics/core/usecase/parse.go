package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"royalty-analytics-service/internal/analytics/core/domain"
)

const (
	dayLayout   = "2006-01-02"
	labelLayout = "Jan 2006"

	unknownKey = "Unknown"

	// Accepted exponent window of a parsed amount. Exponents far outside it
	// make decimal arithmetic rescale through huge big.Ints.
	minAmountExp = -10
	maxAmountExp = 18
)

// maxAmount bounds a single amount so that sums stay finite as float64.
var maxAmount = decimal.New(1, 15)

// parseAmount never fails: anything that is not a plausible number counts
// as zero.
func parseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if exp := d.Exponent(); exp < minAmountExp || exp > maxAmountExp {
		return decimal.Zero
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return decimal.Zero
	}
	return d
}

// monthKey returns the YYYY-MM prefix of a date text, or ok=false.
func monthKey(dateText string) (t time.Time, ok bool) {
	s := strings.Trim(dateText, domain.DateTrimSet)
	if len(s) < 7 {
		return time.Time{}, false
	}
	t, err := time.Parse(domain.MonthLayout, s[:7])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dayKey(dateText string) (string, bool) {
	s := strings.Trim(dateText, domain.DateTrimSet)
	if len(s) < 10 {
		return "", false
	}
	if _, err := time.Parse(dayLayout, s[:10]); err != nil {
		return "", false
	}
	return s[:10], true
}

func groupKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return unknownKey
	}
	return s
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// row is an event with its amount and time keys parsed once per computation.
type row struct {
	ev       domain.RevenueEvent
	amount   decimal.Decimal
	month    string // YYYY-MM, empty when the date is unusable
	year     int
	monthNum int // 1..12
	day      string
}

// prepareCheckEvery is how many rows prepare parses between context checks.
const prepareCheckEvery = 4096

func prepare(ctx context.Context, events []domain.RevenueEvent) ([]row, error) {
	rows := make([]row, 0, len(events))
	for i, ev := range events {
		if i%prepareCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		r := row{ev: ev, amount: parseAmount(ev.AmountText)}
		if t, ok := monthKey(ev.DateText); ok {
			r.month = t.Format(domain.MonthLayout)
			r.year = t.Year()
			r.monthNum = int(t.Month())
		}
		if d, ok := dayKey(ev.DateText); ok {
			r.day = d
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// trailingMonths returns the first day of each of the n months ending with
// the month of now, oldest first.
func trailingMonths(now time.Time, n int) []time.Time {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	months := make([]time.Time, n)
	for i := 0; i < n; i++ {
		months[i] = start.AddDate(0, i-(n-1), 0)
	}
	return months
}

// narrow applies the authoritative scope, search and month range checks.
// Storage adapters pre-filter, but their matching is not trusted to be exact.
func narrow(events []domain.RevenueEvent, q domain.EventQuery) []domain.RevenueEvent {
	search := strings.ToLower(q.SearchText)
	out := events[:0:0]
	for _, ev := range events {
		if !q.Scope.Allows(ev.OwnerTenantID) {
			continue
		}
		if search != "" && !matchesSearch(ev, search) {
			continue
		}
		if q.FromMonth != "" || q.ToMonth != "" {
			t, ok := monthKey(ev.DateText)
			if !ok {
				continue
			}
			m := t.Format(domain.MonthLayout)
			if q.FromMonth != "" && m < q.FromMonth {
				continue
			}
			if q.ToMonth != "" && m > q.ToMonth {
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

func matchesSearch(ev domain.RevenueEvent, lowered string) bool {
	return strings.Contains(strings.ToLower(ev.Artist), lowered) ||
		strings.Contains(strings.ToLower(ev.Release), lowered) ||
		strings.Contains(strings.ToLower(ev.Track), lowered)
}
