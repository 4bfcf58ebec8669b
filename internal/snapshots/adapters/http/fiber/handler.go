package fiber

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"royalty-analytics-service/internal/snapshots/core/domain"
	"royalty-analytics-service/internal/snapshots/core/usecase"
	tenantdomain "royalty-analytics-service/internal/tenants/core/domain"
)

const HeaderTenantRole = "X-Tenant-Role"

type RefreshSnapshotsUseCase interface {
	Execute(ctx context.Context) (domain.RefreshReport, error)
}

type RoleChecker interface {
	IsGlobal(role tenantdomain.Role) bool
}

type SnapshotHandler struct {
	uc    RefreshSnapshotsUseCase
	roles RoleChecker
}

func NewSnapshotHandler(uc RefreshSnapshotsUseCase, roles RoleChecker) *SnapshotHandler {
	return &SnapshotHandler{uc: uc, roles: roles}
}

// RefreshSnapshots godoc
// @Summary Refresh dashboard snapshots now
// @Description Recomputes the snapshot of every globally privileged tenant
// @Tags Snapshots
// @Produce json
// @Param X-Tenant-Role header string true "Caller role, must be global"
// @Success 200 {object} RefreshReportResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/snapshots/refresh [post]
func (h *SnapshotHandler) RefreshSnapshots(c *fiber.Ctx) error {
	role := tenantdomain.NormalizeRole(c.Get(HeaderTenantRole))
	if role == "" || !h.roles.IsGlobal(role) {
		return c.Status(http.StatusForbidden).JSON(ErrorResponse{
			Error: "forbidden",
		})
	}

	report, err := h.uc.Execute(c.Context())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrRefreshInProgress):
			return c.Status(http.StatusConflict).JSON(ErrorResponse{
				Error:   "refresh_in_progress",
				Message: err.Error(),
			})
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	failed := report.FailedTenantIDs
	if failed == nil {
		failed = []int64{}
	}

	return c.Status(http.StatusOK).JSON(RefreshReportResponse{
		StartedAt:       report.StartedAt,
		DurationMs:      report.Duration.Milliseconds(),
		Tenants:         report.Tenants,
		Refreshed:       report.Refreshed,
		Failed:          report.Failed,
		FailedTenantIDs: failed,
	})
}
