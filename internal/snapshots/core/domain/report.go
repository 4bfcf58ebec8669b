package domain

import "time"

// RefreshReport summarizes one materialization run.
type RefreshReport struct {
	StartedAt       time.Time
	Duration        time.Duration
	Tenants         int
	Refreshed       int
	Failed          int
	FailedTenantIDs []int64
}
