package fiber

import "royalty-analytics-service/internal/analytics/core/domain"

// DashboardRequest collects the caller identity headers and the optional
// query filters of GET /dashboard.
type DashboardRequest struct {
	ActorTenantID string `validate:"required,numeric"`
	ActorRole     string `validate:"required,max=64"`
	TenantID      string `validate:"omitempty,numeric"`
	Search        string `validate:"max=200"`
	FromMonth     string `validate:"omitempty,datetime=2006-01"`
	ToMonth       string `validate:"omitempty,datetime=2006-01"`
}

// DashboardResponse is the nine-facet bundle as served to the frontend.
type DashboardResponse = domain.FacetBundle

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_request"`
	Message string `json:"message,omitempty" example:"from_month is after to_month"`
}
