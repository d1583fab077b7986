package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"alfredoramos.mx/rescue-reporter/assignment"
	"alfredoramos.mx/rescue-reporter/controllers"
	"alfredoramos.mx/rescue-reporter/directory"
	"alfredoramos.mx/rescue-reporter/models"
	"alfredoramos.mx/rescue-reporter/notifications"
	"alfredoramos.mx/rescue-reporter/stores"
	"alfredoramos.mx/rescue-reporter/uploads"
	"alfredoramos.mx/rescue-reporter/workflow"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T, ngos ...models.Ngo) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Ngo{}, &models.Report{}, &models.Notification{}))

	ngoStore := stores.NewNgos(db)

	for i := range ngos {
		require.NoError(t, ngoStore.Register(context.Background(), &ngos[i]))
	}

	reports := stores.NewReports(db)
	notifs := stores.NewNotifications(db)
	dir := directory.New(stores.NewCachedNgos(ngoStore, nil))

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := notifications.NewDispatcher(
		[]notifications.Channel{notifications.NewLogChannel(quiet)},
		notifications.WithRecorder(notifs),
		notifications.WithTimeout(2*time.Second),
		notifications.WithLogger(quiet),
	)

	disk, err := uploads.NewDisk(t.TempDir())
	require.NoError(t, err)

	wf := workflow.New(reports, assignment.NewEngine(dir), dispatcher, disk)

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		BodyLimit:    16 * 1024 * 1024,
	})

	SetupRoutes(app, Handlers{
		Reports:   controllers.NewReportController(wf, reports, notifs),
		Ngos:      controllers.NewNgoController(dir),
		UploadDir: disk.Dir(),
		Health:    func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
		Quiet:     true,
	})

	return &testServer{app: app, db: db}
}

func defaultNgos() []models.Ngo {
	email := "help@delhirescue.org"

	return []models.Ngo{
		{Name: "Delhi Rescue", Phone: "+91 11 2345 6789", Email: &email, Latitude: 28.6139, Longitude: 77.2090},
		{Name: "Mumbai Rescue", Phone: "+91 22 2345 6789", Latitude: 19.0760, Longitude: 72.8777},
	}
}

func reportForm(t *testing.T, fields map[string]string, photo string, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	if len(photo) > 0 {
		part, err := w.CreateFormFile("photo", photo)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"description":    "Injured dog near India Gate",
		"reporter_name":  "Kabir",
		"reporter_phone": "+91 99999 00000",
		"latitude":       "28.60",
		"longitude":      "77.20",
	}
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()

	res, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, raw
}

func (s *testServer) postReport(t *testing.T, fields map[string]string, photo string, content string) (int, map[string]any) {
	t.Helper()

	body, contentType := reportForm(t, fields, photo, content)
	req := httptest.NewRequest(fiber.MethodPost, "/api/reports", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	code, raw := s.do(t, req)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))

	return code, out
}

func (s *testServer) patchStatus(t *testing.T, id string, status string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPatch, "/api/reports/"+id+"/status", strings.NewReader(`{"status":"`+status+`"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	code, raw := s.do(t, req)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))

	return code, out
}

func (s *testServer) getJSON(t *testing.T, path string, out any) int {
	t.Helper()

	code, raw := s.do(t, httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, json.Unmarshal(raw, out), string(raw))

	return code
}

func TestCreateReportAssignsNearestNgo(t *testing.T) {
	s := newTestServer(t, defaultNgos()...)

	code, out := s.postReport(t, validFields(), "dog photo.JPG", "jpeg-bytes")
	require.Equal(t, fiber.StatusCreated, code, out)

	assert.Equal(t, "Report created successfully", out["message"])
	assert.EqualValues(t, 1, out["id"])
	assert.Equal(t, "PENDING", out["status"])
	assert.Equal(t, "Delhi Rescue", out["assigned_ngo"])
	assert.InDelta(t, 1.78, out["distance_km"], 0.05)

	detail := map[string]any{}
	require.Equal(t, fiber.StatusOK, s.getJSON(t, "/api/reports/1/details", &detail))
	assert.Equal(t, "Injured dog near India Gate", detail["description"])
	assert.Equal(t, "Kabir", detail["reporter_name"])
	assert.Equal(t, "+91 99999 00000", detail["reporter_phone"])
	assert.Equal(t, 28.60, detail["latitude"])
	assert.Equal(t, 77.20, detail["longitude"])
	assert.Equal(t, "PENDING", detail["status"])
	assert.Equal(t, "Delhi Rescue", detail["assigned_ngo"])
	assert.NotEmpty(t, detail["created_at"])

	imagePath, ok := detail["image_path"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(imagePath, "/uploads/"))
	assert.True(t, strings.HasSuffix(imagePath, "_dog_photo.JPG"))

	code, raw := s.do(t, httptest.NewRequest(fiber.MethodGet, imagePath, nil))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "jpeg-bytes", string(raw))

	sent := []map[string]any{}
	require.Equal(t, fiber.StatusOK, s.getJSON(t, "/api/reports/1/notifications", &sent))
	require.Len(t, sent, 1)
	assert.Equal(t, "log", sent[0]["channel"])
	assert.Equal(t, "SENT", sent[0]["status"])
}

func TestCreateReportWithoutNgos(t *testing.T) {
	s := newTestServer(t)

	code, out := s.postReport(t, validFields(), "", "")
	require.Equal(t, fiber.StatusCreated, code, out)
	assert.NotContains(t, out, "assigned_ngo")
	assert.NotContains(t, out, "distance_km")

	sent := []map[string]any{}
	require.Equal(t, fiber.StatusOK, s.getJSON(t, "/api/reports/1/notifications", &sent))
	assert.Empty(t, sent)
}

func TestCreateReportValidation(t *testing.T) {
	s := newTestServer(t, defaultNgos()...)

	fields := validFields()
	fields["latitude"] = "abc"
	delete(fields, "description")

	code, out := s.postReport(t, fields, "", "")
	require.Equal(t, fiber.StatusBadRequest, code)

	errs, ok := out["error"].(map[string]any)
	require.True(t, ok, out)
	assert.Contains(t, errs, "latitude")
	assert.Contains(t, errs, "description")

	list := []map[string]any{}
	require.Equal(t, fiber.StatusOK, s.getJSON(t, "/api/reports", &list))
	assert.Empty(t, list)

	var count int64
	require.NoError(t, s.db.Model(&models.Report{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateReportIgnoresInvalidImage(t *testing.T) {
	s := newTestServer(t, defaultNgos()...)

	code, out := s.postReport(t, validFields(), "malware.exe", "MZ")
	require.Equal(t, fiber.StatusCreated, code, out)

	detail := map[string]any{}
	require.Equal(t, fiber.StatusOK, s.getJSON(t, "/api/reports/1/details", &detail))
	assert.Nil(t, detail["image_path"])
}

func TestListIsPrivacyFilteredAndFiltersOpen(t *testing.T) {
	s := newTestServer(t, defaultNgos()...)

	for i := 0; i < 2; i++ {
		code, _ := s.postReport(t, validFields(), "", "")
		require.Equal(t, fiber.StatusCreated, code)
	}

	code, out := s.patchStatus(t, "1", "RESOLVED")
	require.Equal(t, fiber.StatusOK, code, out)

	list := []map[string]any{}
	require.Equal(t, fiber.StatusOK, s.getJSON(t, "/api/reports", &list))
	require.Len(t, list, 2)

	for _, r := range list {
		assert.NotContains(t, r, "reporter_name")
		assert.NotContains(t, r, "reporter_phone")
		assert.Contains(t, r, "description")
	}

	open := []map[string]any{}
	require.Equal(t, fiber.StatusOK, s.getJSON(t, "/api/reports?onlyOpen=true", &open))
	require.Len(t, open, 1)
	assert.EqualValues(t, 2, open[0]["id"])

	all := []map[string]any{}
	require.Equal(t, fiber.StatusOK, s.getJSON(t, "/api/reports?onlyOpen=nope", &all))
	assert.Len(t, all, 2)
}

func TestPatchStatus(t *testing.T) {
	s := newTestServer(t, defaultNgos()...)

	code, _ := s.postReport(t, validFields(), "", "")
	require.Equal(t, fiber.StatusCreated, code)

	code, out := s.patchStatus(t, "1", "ON_THE_WAY")
	require.Equal(t, fiber.StatusOK, code, out)
	assert.Equal(t, "Status updated successfully", out["message"])
	assert.EqualValues(t, 1, out["id"])
	assert.Equal(t, "ON_THE_WAY", out["status"])

	code, _ = s.patchStatus(t, "1", "ON_THE_WAY")
	assert.Equal(t, fiber.StatusOK, code)

	code, out = s.patchStatus(t, "1", "FLYING")
	assert.Equal(t, fiber.StatusBadRequest, code, out)
	errs, ok := out["error"].(map[string]any)
	require.True(t, ok, out)
	assert.Len(t, errs["status"], 1)

	code, out = s.patchStatus(t, "99", "RESOLVED")
	assert.Equal(t, fiber.StatusNotFound, code, out)

	detail := map[string]any{}
	require.Equal(t, fiber.StatusOK, s.getJSON(t, "/api/reports/1/details", &detail))
	assert.Equal(t, "ON_THE_WAY", detail["status"])
	assert.Equal(t, "Kabir", detail["reporter_name"])
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t, defaultNgos()...)

	out := map[string]any{}
	assert.Equal(t, fiber.StatusNotFound, s.getJSON(t, "/api/reports/42/details", &out))
	assert.Equal(t, fiber.StatusNotFound, s.getJSON(t, "/api/reports/42/notifications", &out))
	assert.Equal(t, fiber.StatusNotFound, s.getJSON(t, "/api/reports/abc/details", &out))
	assert.Equal(t, fiber.StatusNotFound, s.getJSON(t, "/uploads/missing.png", &out))
	assert.Equal(t, fiber.StatusNotFound, s.getJSON(t, "/api/unknown", &out))
	assert.Contains(t, out, "error")
}

func TestNgosIndexAndHealth(t *testing.T) {
	s := newTestServer(t, defaultNgos()...)

	ngos := []map[string]any{}
	require.Equal(t, fiber.StatusOK, s.getJSON(t, "/api/ngos", &ngos))
	require.Len(t, ngos, 2)
	assert.Equal(t, "Delhi Rescue", ngos[0]["name"])
	assert.Equal(t, "help@delhirescue.org", ngos[0]["email"])
	assert.Equal(t, "Mumbai Rescue", ngos[1]["name"])

	index := map[string]any{}
	require.Equal(t, fiber.StatusOK, s.getJSON(t, "/", &index))
	assert.Equal(t, "1.0", index["version"])
	assert.Contains(t, index, "endpoints")

	health := map[string]any{}
	require.Equal(t, fiber.StatusOK, s.getJSON(t, "/api/health", &health))
	assert.Equal(t, true, health["healthy"])
}
