package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"royalty-analytics-service/internal/ingestion/adapters/spreadsheet"
	"royalty-analytics-service/internal/ingestion/core/domain"
	"royalty-analytics-service/internal/ingestion/core/usecase"
)

type IngestUploadUseCase interface {
	Execute(ctx context.Context, in usecase.IngestUploadInput) (*domain.Upload, error)
}

type UploadHandler struct {
	uc       IngestUploadUseCase
	validate *validator.Validate
}

func NewUploadHandler(uc IngestUploadUseCase) *UploadHandler {
	return &UploadHandler{uc: uc, validate: validator.New()}
}

// CreateUpload godoc
// @Summary Upload a platform revenue report
// @Description Parses an .xlsx or .csv report and stores its rows as revenue events of the given tenant. Rows of platforms without a registered store are handled by the configured unknown-platform policy.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Report file (.xlsx, .xlsm, .csv)"
// @Param platform formData string true "Platform name, e.g. Spotify"
// @Param tenant_id formData int true "Owner tenant id"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /uploads [post]
func (h *UploadHandler) CreateUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_upload",
			Message: "file is required",
		})
	}

	req := UploadRequest{
		TenantID: strings.TrimSpace(c.FormValue("tenant_id")),
		Platform: strings.TrimSpace(c.FormValue("platform")),
		FileName: fh.Filename,
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_upload",
			Message: err.Error(),
		})
	}

	tenantID, err := strconv.ParseInt(req.TenantID, 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_upload",
			Message: "invalid 'tenant_id' parameter",
		})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
	defer f.Close()

	rows, err := spreadsheet.Read(fh.Filename, f)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_upload",
			Message: err.Error(),
		})
	}

	up, err := h.uc.Execute(c.Context(), usecase.IngestUploadInput{
		TenantID: tenantID,
		Platform: req.Platform,
		FileName: fh.Filename,
		Rows:     rows,
	})
	if err != nil {
		return h.executeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(toUploadResponse(up))
}

// IngestRows godoc
// @Summary Ingest report rows as JSON
// @Description Same as an upload, with the rows already parsed. Each row maps header cell to value.
// @Tags Uploads
// @Accept json
// @Produce json
// @Param request body IngestRowsRequest true "Rows payload"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /uploads/rows [post]
func (h *UploadHandler) IngestRows(c *fiber.Ctx) error {
	var req IngestRowsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_upload",
			Message: err.Error(),
		})
	}

	rows := make([]domain.RawRow, len(req.Rows))
	for i, r := range req.Rows {
		rows[i] = domain.RawRow(r)
	}

	up, err := h.uc.Execute(c.UserContext(), usecase.IngestUploadInput{
		TenantID: req.TenantID,
		Platform: req.Platform,
		FileName: req.Source,
		Rows:     rows,
	})
	if err != nil {
		return h.executeError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(toUploadResponse(up))
}

func (h *UploadHandler) executeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidUpload),
		errors.Is(err, usecase.ErrUnknownPlatform):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_upload",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}

func toUploadResponse(up *domain.Upload) UploadResponse {
	return UploadResponse{
		BatchID:      up.BatchID.String(),
		TenantID:     up.TenantID,
		Platform:     up.Platform,
		Store:        up.Store,
		FileName:     up.FileName,
		Status:       string(up.Status),
		TotalRows:    up.TotalRows,
		StoredRows:   up.StoredRows,
		FailedChunks: up.FailedChunks,
		CreatedAt:    up.CreatedAt,
		CompletedAt:  up.CompletedAt,
	}
}
