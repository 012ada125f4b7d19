package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"go.uber.org/zap"

	"github.com/sambrocindrela-ctrl/gestor-examens/internal/dto"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/service"
	"github.com/sambrocindrela-ctrl/gestor-examens/internal/store"
	"github.com/sambrocindrela-ctrl/gestor-examens/pkg/response"
)

// ══════════════════════════════════════════════
// Mock Services
// ══════════════════════════════════════════════

type mockImportService struct {
	subjectsResult *dto.SubjectsImportResponse
	subjectsErr    error
	roomsResult    *dto.RoomsImportResponse
	roomsErr       error
	calendarResult *dto.CalendarImportResponse
	calendarErr    error

	gotMode     string
	gotFilename string
}

func (m *mockImportService) ImportSubjects(ctx context.Context, mode, filename string, r io.Reader) (*dto.SubjectsImportResponse, error) {
	m.gotMode, m.gotFilename = mode, filename
	return m.subjectsResult, m.subjectsErr
}

func (m *mockImportService) ImportRooms(ctx context.Context, filename string, r io.Reader) (*dto.RoomsImportResponse, error) {
	m.gotFilename = filename
	return m.roomsResult, m.roomsErr
}

func (m *mockImportService) ImportCalendar(ctx context.Context, filename string, r io.Reader) (*dto.CalendarImportResponse, error) {
	m.gotFilename = filename
	return m.calendarResult, m.calendarErr
}

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportJSON(ctx context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

func (m *mockExportService) ExportCSV(ctx context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

func (m *mockExportService) ExportXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

func (m *mockExportService) ExportICS(ctx context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

type mockPlanService struct {
	saveResult  *dto.PlanResponse
	saveErr     error
	listResult  []dto.PlanResponse
	listErr     error
	loadErr     error
	deleteErr   error
	shareResult *dto.ShareResponse
	shareErr    error
	resolved    json.RawMessage
	resolveErr  error
}

func (m *mockPlanService) Save(ctx context.Context, name string) (*dto.PlanResponse, error) {
	return m.saveResult, m.saveErr
}

func (m *mockPlanService) List(ctx context.Context) ([]dto.PlanResponse, error) {
	return m.listResult, m.listErr
}

func (m *mockPlanService) Load(ctx context.Context, id string) error { return m.loadErr }

func (m *mockPlanService) Delete(ctx context.Context, id string) error { return m.deleteErr }

func (m *mockPlanService) CreateShare(ctx context.Context) (*dto.ShareResponse, error) {
	return m.shareResult, m.shareErr
}

func (m *mockPlanService) ResolveShare(ctx context.Context, code string) (json.RawMessage, error) {
	return m.resolved, m.resolveErr
}

// ══════════════════════════════════════════════
// Helpers
// ══════════════════════════════════════════════

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("writing form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// newPlannerSvc backs PlanHandler's state echo with an empty session.
func newPlannerSvc() service.PlannerService {
	return service.NewPlannerService(store.NewPlannerStore(zap.NewNop(), 0), zap.NewNop())
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var env response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope: %v (%s)", err, w.Body.String())
	}
	return env
}

// ══════════════════════════════════════════════
// Import
// ══════════════════════════════════════════════

func TestImportHandler_Subjects(t *testing.T) {
	mock := &mockImportService{
		subjectsResult: &dto.SubjectsImportResponse{Mode: "merge", Subjects: 3, AddedSubjects: 1},
	}
	h := NewImportHandler(mock)
	r := gin.New()
	r.POST("/import/subjects", h.ImportSubjects)

	body, contentType := multipartUpload(t, "file", "subjects.csv", "codi,sigles\n230001,XC\n")
	req := httptest.NewRequest(http.MethodPost, "/import/subjects?mode=merge", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	env := decodeEnvelope(t, w)
	if w.Code != http.StatusOK || env.Code != 0 {
		t.Fatalf("status %d, envelope %+v", w.Code, env)
	}
	if mock.gotMode != "merge" || mock.gotFilename != "subjects.csv" {
		t.Errorf("service saw mode %q file %q", mock.gotMode, mock.gotFilename)
	}
}

func TestImportHandler_Subjects_DefaultsToReplace(t *testing.T) {
	mock := &mockImportService{subjectsResult: &dto.SubjectsImportResponse{}}
	h := NewImportHandler(mock)
	r := gin.New()
	r.POST("/import/subjects", h.ImportSubjects)

	body, contentType := multipartUpload(t, "file", "s.csv", "codi\n1\n")
	req := httptest.NewRequest(http.MethodPost, "/import/subjects", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if mock.gotMode != service.ModeReplace {
		t.Errorf("mode = %q, want %q", mock.gotMode, service.ModeReplace)
	}
}

func TestImportHandler_MissingFile(t *testing.T) {
	h := NewImportHandler(&mockImportService{})
	r := gin.New()
	r.POST("/import/rooms", h.ImportRooms)

	req := httptest.NewRequest(http.MethodPost, "/import/rooms", strings.NewReader("not multipart"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	env := decodeEnvelope(t, w)
	if w.Code != http.StatusBadRequest || env.Code != 13001 {
		t.Errorf("status %d code %d, want 400/13001", w.Code, env.Code)
	}
}

func TestImportHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unknown mode", service.ErrUnknownMode, 13002},
		{"unsupported file", service.ErrUnsupportedFile, 13003},
		{"empty file", service.ErrEmptyImport, 13004},
	}
	for _, c := range cases {
		h := NewImportHandler(&mockImportService{subjectsErr: c.err})
		r := gin.New()
		r.POST("/import/subjects", h.ImportSubjects)

		body, contentType := multipartUpload(t, "file", "s.csv", "x\n")
		req := httptest.NewRequest(http.MethodPost, "/import/subjects", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		env := decodeEnvelope(t, w)
		if w.Code != http.StatusBadRequest || env.Code != c.wantCode {
			t.Errorf("%s: status %d code %d, want 400/%d", c.name, w.Code, env.Code, c.wantCode)
		}
	}
}

// ══════════════════════════════════════════════
// Export
// ══════════════════════════════════════════════

func TestExportHandler_Download(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("230,2024,1,PARTIAL,10-01-2025,08:00,10:00,230001,\n"),
		filename: "examens_export.csv",
	}
	h := NewExportHandler(mock)
	r := gin.New()
	r.GET("/export/csv", h.ExportCSV)

	req := httptest.NewRequest(http.MethodGet, "/export/csv", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "examens_export.csv") {
		t.Errorf("Content-Disposition = %q", got)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv") {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(w.Body.String(), "230,") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestExportHandler_NothingToExport(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNothing})
	r := gin.New()
	r.GET("/export/ics", h.ExportICS)

	req := httptest.NewRequest(http.MethodGet, "/export/ics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	env := decodeEnvelope(t, w)
	if w.Code != http.StatusNotFound || env.Code != 16101 {
		t.Errorf("status %d code %d, want 404/16101", w.Code, env.Code)
	}
}

// ══════════════════════════════════════════════
// Plans and share links
// ══════════════════════════════════════════════

func TestPlanHandler_Save(t *testing.T) {
	mock := &mockPlanService{saveResult: &dto.PlanResponse{ID: "p1", Name: "draft"}}
	h := NewPlanHandler(mock, newPlannerSvc())
	r := gin.New()
	r.POST("/plans", h.SavePlan)

	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`{"name":"draft"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	env := decodeEnvelope(t, w)
	if w.Code != http.StatusOK || env.Code != 0 {
		t.Fatalf("status %d, envelope %+v", w.Code, env)
	}
}

func TestPlanHandler_Save_NameRequired(t *testing.T) {
	h := NewPlanHandler(&mockPlanService{}, newPlannerSvc())
	r := gin.New()
	r.POST("/plans", h.SavePlan)

	req := httptest.NewRequest(http.MethodPost, "/plans", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	env := decodeEnvelope(t, w)
	if w.Code != http.StatusBadRequest || env.Code != 10001 {
		t.Errorf("status %d code %d, want 400/10001", w.Code, env.Code)
	}
}

func TestPlanHandler_LoadMissing(t *testing.T) {
	h := NewPlanHandler(&mockPlanService{loadErr: service.ErrPlanNotFound}, newPlannerSvc())
	r := gin.New()
	r.GET("/plans/:id", h.LoadPlan)

	req := httptest.NewRequest(http.MethodGet, "/plans/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	env := decodeEnvelope(t, w)
	if w.Code != http.StatusNotFound || env.Code != 17001 {
		t.Errorf("status %d code %d, want 404/17001", w.Code, env.Code)
	}
}

func TestPlanHandler_ShareUnavailable(t *testing.T) {
	h := NewPlanHandler(&mockPlanService{shareErr: service.ErrShareUnavailable}, newPlannerSvc())
	r := gin.New()
	r.POST("/share", h.CreateShare)

	req := httptest.NewRequest(http.MethodPost, "/share", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	env := decodeEnvelope(t, w)
	if w.Code != http.StatusServiceUnavailable || env.Code != 18001 {
		t.Errorf("status %d code %d, want 503/18001", w.Code, env.Code)
	}
}

func TestPlanHandler_ResolveShare(t *testing.T) {
	mock := &mockPlanService{resolved: json.RawMessage(`{"subjects":[]}`)}
	h := NewPlanHandler(mock, newPlannerSvc())
	r := gin.New()
	r.GET("/share/:code", h.ResolveShare)

	req := httptest.NewRequest(http.MethodGet, "/share/abc123", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	env := decodeEnvelope(t, w)
	if w.Code != http.StatusOK || env.Code != 0 {
		t.Errorf("status %d, envelope %+v", w.Code, env)
	}
}
