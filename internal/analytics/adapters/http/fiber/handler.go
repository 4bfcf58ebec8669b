package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"royalty-analytics-service/internal/analytics/core/domain"
	"royalty-analytics-service/internal/analytics/core/usecase"
	tenantdomain "royalty-analytics-service/internal/tenants/core/domain"
)

const (
	HeaderTenantID   = "X-Tenant-ID"
	HeaderTenantRole = "X-Tenant-Role"
)

type ComputeDashboardUseCase interface {
	Execute(ctx context.Context, in usecase.ComputeDashboardInput) (*domain.FacetBundle, error)
}

type DashboardHandler struct {
	uc       ComputeDashboardUseCase
	validate *validator.Validate
}

func NewDashboardHandler(uc ComputeDashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, validate: validator.New()}
}

// GetDashboard godoc
// @Summary Dashboard facet bundle
// @Description Returns the nine dashboard facets for the caller. Unfiltered requests from global roles are served from the precomputed snapshot.
// @Tags Dashboard
// @Produce json
// @Param X-Tenant-ID header int true "Caller tenant id"
// @Param X-Tenant-Role header string true "Caller role"
// @Param tenant_id query int false "Restrict to this tenant"
// @Param search query string false "Substring of artist, release or track"
// @Param from_month query string false "First month, YYYY-MM"
// @Param to_month query string false "Last month, YYYY-MM"
// @Success 200 {object} DashboardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	req := DashboardRequest{
		ActorTenantID: strings.TrimSpace(c.Get(HeaderTenantID)),
		ActorRole:     strings.TrimSpace(c.Get(HeaderTenantRole)),
		TenantID:      strings.TrimSpace(c.Query("tenant_id")),
		Search:        c.Query("search"),
		FromMonth:     strings.TrimSpace(c.Query("from_month")),
		ToMonth:       strings.TrimSpace(c.Query("to_month")),
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	}

	actorID, err := strconv.ParseInt(req.ActorTenantID, 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid " + HeaderTenantID + " header",
		})
	}

	filters := &domain.Filters{
		SearchText: req.Search,
		FromMonth:  req.FromMonth,
		ToMonth:    req.ToMonth,
	}
	if req.TenantID != "" {
		id, err := strconv.ParseInt(req.TenantID, 10, 64)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_request",
				Message: "invalid 'tenant_id' parameter",
			})
		}
		filters.ExplicitTenantID = &id
	}

	in := usecase.ComputeDashboardInput{
		Actor: tenantdomain.Actor{
			Role:     tenantdomain.NormalizeRole(req.ActorRole),
			TenantID: actorID,
		},
		Filters: filters,
	}

	bundle, err := h.uc.Execute(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_request",
				Message: err.Error(),
			})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Error:   "not_found",
				Message: err.Error(),
			})
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	return c.Status(http.StatusOK).JSON(bundle)
}
