package fiber_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "royalty-analytics-service/internal/ingestion/adapters/http/fiber"
	"royalty-analytics-service/internal/ingestion/core/domain"
	"royalty-analytics-service/internal/ingestion/core/usecase"
)

type fakeIngestUseCase struct {
	ExecuteFn func(ctx context.Context, in usecase.IngestUploadInput) (*domain.Upload, error)
	lastInput usecase.IngestUploadInput
	called    bool
}

func (f *fakeIngestUseCase) Execute(ctx context.Context, in usecase.IngestUploadInput) (*domain.Upload, error) {
	f.called = true
	f.lastInput = in
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, in)
	}
	return &domain.Upload{
		BatchID:    uuid.New(),
		TenantID:   in.TenantID,
		Platform:   in.Platform,
		FileName:   in.FileName,
		TotalRows:  len(in.Rows),
		StoredRows: len(in.Rows),
		Status:     domain.StatusCompleted,
	}, nil
}

func setupApp(t *testing.T, uc httpadapter.IngestUploadUseCase) *fiber.App {
	t.Helper()
	app := fiber.New()
	h := httpadapter.NewUploadHandler(uc)
	app.Post("/uploads", h.CreateUpload)
	return app
}

func uploadRequest(t *testing.T, fields map[string]string, fileName, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploads", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

const csvReport = "Track,Artist,Revenue,Streams\nHoot,Owl,10.50,3\nCaw,Crow,5.00,2\n"

// ------------------------------------------------------------
// SUCCESS
// ------------------------------------------------------------

func TestCreateUpload_Success(t *testing.T) {
	uc := &fakeIngestUseCase{}
	app := setupApp(t, uc)

	req := uploadRequest(t, map[string]string{"tenant_id": "42", "platform": "Spotify"}, "jan.csv", csvReport)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, int64(42), uc.lastInput.TenantID)
	assert.Equal(t, "Spotify", uc.lastInput.Platform)
	assert.Equal(t, "jan.csv", uc.lastInput.FileName)
	require.Len(t, uc.lastInput.Rows, 2)
	assert.Equal(t, "Hoot", uc.lastInput.Rows[0]["Track"])

	var out httpadapter.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "completed", out.Status)
	assert.Equal(t, 2, out.StoredRows)
}

// ------------------------------------------------------------
// BAD REQUESTS
// ------------------------------------------------------------

func TestCreateUpload_BadRequests(t *testing.T) {
	cases := []struct {
		name     string
		fields   map[string]string
		fileName string
	}{
		{"missing file", map[string]string{"tenant_id": "42", "platform": "Spotify"}, ""},
		{"missing platform", map[string]string{"tenant_id": "42"}, "jan.csv"},
		{"non numeric tenant", map[string]string{"tenant_id": "abc", "platform": "Spotify"}, "jan.csv"},
		{"unsupported format", map[string]string{"tenant_id": "42", "platform": "Spotify"}, "jan.pdf"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &fakeIngestUseCase{}
			app := setupApp(t, uc)

			resp, err := app.Test(uploadRequest(t, tc.fields, tc.fileName, csvReport), -1)
			require.NoError(t, err)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			if uc.called {
				t.Fatalf("usecase must not be called")
			}
		})
	}
}

func TestCreateUpload_EmptyFile(t *testing.T) {
	uc := &fakeIngestUseCase{}
	app := setupApp(t, uc)

	resp, err := app.Test(uploadRequest(t, map[string]string{"tenant_id": "42", "platform": "Spotify"}, "jan.csv", "\n\n"), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, uc.called)
}

// ------------------------------------------------------------
// ERROR MAPPING
// ------------------------------------------------------------

func TestCreateUpload_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: %q", usecase.ErrUnknownPlatform, "Napster"), http.StatusBadRequest},
		{fmt.Errorf("%w: tenant id is required", usecase.ErrInvalidUpload), http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		uc := &fakeIngestUseCase{ExecuteFn: func(ctx context.Context, in usecase.IngestUploadInput) (*domain.Upload, error) {
			return nil, tc.err
		}}
		app := setupApp(t, uc)

		resp, err := app.Test(uploadRequest(t, map[string]string{"tenant_id": "42", "platform": "Napster"}, "jan.csv", csvReport), -1)
		require.NoError(t, err)
		if resp.StatusCode != tc.want {
			t.Fatalf("error %v: expected %d, got %d", tc.err, tc.want, resp.StatusCode)
		}
	}
}

// ------------------------------------------------------------
// JSON ROWS
// ------------------------------------------------------------

func rowsRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/uploads/rows", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestIngestRows_Success(t *testing.T) {
	uc := &fakeIngestUseCase{}
	app := fiber.New()
	app.Post("/uploads/rows", httpadapter.NewUploadHandler(uc).IngestRows)

	body := `{"tenant_id":7,"platform":"Deezer","source":"deezer-api","rows":[{"Track":"Hoot","Revenue":"1.25"}]}`
	resp, err := app.Test(rowsRequest(body), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, int64(7), uc.lastInput.TenantID)
	assert.Equal(t, "deezer-api", uc.lastInput.FileName)
	require.Len(t, uc.lastInput.Rows, 1)
	assert.Equal(t, "1.25", uc.lastInput.Rows[0]["Revenue"])
}

func TestIngestRows_BadRequests(t *testing.T) {
	cases := map[string]string{
		"invalid json":   `{"tenant_id":`,
		"no rows":        `{"tenant_id":7,"platform":"Deezer","rows":[]}`,
		"no tenant":      `{"platform":"Deezer","rows":[{"Track":"Hoot"}]}`,
		"empty platform": `{"tenant_id":7,"rows":[{"Track":"Hoot"}]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			uc := &fakeIngestUseCase{}
			app := fiber.New()
			app.Post("/uploads/rows", httpadapter.NewUploadHandler(uc).IngestRows)

			resp, err := app.Test(rowsRequest(body), -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.False(t, uc.called)
		})
	}
}
