package domain

import (
	"fmt"
	"strings"
	"time"

	tenantdomain "royalty-analytics-service/internal/tenants/core/domain"
)

// MonthLayout is the YYYY-MM layout used by month filters and month keys.
const MonthLayout = "2006-01"

// DateTrimSet is stripped from both ends of a date cell before it is read.
const DateTrimSet = " \t\r\n\v\f"

// RevenueEvent is one royalty line as stored by ingestion. Date and amount are
// kept as the raw text found in the upload.
type RevenueEvent struct {
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

// Filters are the optional dashboard narrowing options.
type Filters struct {
	ExplicitTenantID *int64
	SearchText       string
	FromMonth        string // YYYY-MM, inclusive
	ToMonth          string // YYYY-MM, inclusive
}

// IsEmpty reports whether no filter is set. A nil receiver is empty.
func (f *Filters) IsEmpty() bool {
	if f == nil {
		return true
	}
	return f.ExplicitTenantID == nil &&
		strings.TrimSpace(f.SearchText) == "" &&
		strings.TrimSpace(f.FromMonth) == "" &&
		strings.TrimSpace(f.ToMonth) == ""
}

// Validate checks month bounds and the explicit tenant id.
func (f *Filters) Validate() error {
	if f == nil {
		return nil
	}

	if f.ExplicitTenantID != nil && *f.ExplicitTenantID <= 0 {
		return fmt.Errorf("%w: tenant_id must be positive", ErrValidation)
	}

	from, err := parseMonth(f.FromMonth)
	if err != nil {
		return fmt.Errorf("%w: from_month: %v", ErrValidation, err)
	}
	to, err := parseMonth(f.ToMonth)
	if err != nil {
		return fmt.Errorf("%w: to_month: %v", ErrValidation, err)
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return fmt.Errorf("%w: from_month is after to_month", ErrValidation)
	}

	return nil
}

func parseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(MonthLayout, s)
}

// EventQuery is what the engine reads: a scope plus normalized filters.
type EventQuery struct {
	Scope      tenantdomain.Scope
	SearchText string
	FromMonth  string
	ToMonth    string
}

// NewEventQuery trims the textual filters of f into a query for scope.
func NewEventQuery(scope tenantdomain.Scope, f *Filters) EventQuery {
	q := EventQuery{Scope: scope}
	if f != nil {
		q.SearchText = strings.TrimSpace(f.SearchText)
		q.FromMonth = strings.TrimSpace(f.FromMonth)
		q.ToMonth = strings.TrimSpace(f.ToMonth)
	}
	return q
}
