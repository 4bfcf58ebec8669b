package fiber

import "time"

type RefreshReportResponse struct {
	StartedAt       time.Time `json:"started_at"`
	DurationMs      int64     `json:"duration_ms"`
	Tenants         int       `json:"tenants"`
	Refreshed       int       `json:"refreshed"`
	Failed          int       `json:"failed"`
	FailedTenantIDs []int64   `json:"failed_tenant_ids"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"refresh_in_progress"`
	Message string `json:"message,omitempty" example:"snapshot refresh already in progress"`
}
