package consent

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/consentd/consentd/internal/domain/profile"
	"github.com/consentd/consentd/internal/domain/project"
	"github.com/consentd/consentd/internal/platform/validation"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	return e
}

func TestHandler_SetConsent(t *testing.T) {
	f := newFixture()
	proj := f.addProject(project.StatusActive)
	h := NewHandler(f.svc)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"consent_given":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(patientCtx("patient-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(proj.ID.String())

	if err := h.SetConsent(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"consent_given":true`) {
		t.Errorf("expected granted record in response, got %s", rec.Body.String())
	}
}

func TestHandler_SetConsent_MissingBody(t *testing.T) {
	f := newFixture()
	proj := f.addProject(project.StatusActive)
	h := NewHandler(f.svc)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(patientCtx("patient-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(proj.ID.String())

	err := h.SetConsent(c)
	if err == nil {
		t.Fatal("expected error for missing consent_given")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_SetConsent_InvalidID(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"consent_given":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(patientCtx("patient-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.SetConsent(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid id, got %v", err)
	}
}

func TestHandler_SetConsent_InactiveProject(t *testing.T) {
	f := newFixture()
	proj := f.addProject(project.StatusPaused)
	h := NewHandler(f.svc)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"consent_given":true}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(patientCtx("patient-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(proj.ID.String())

	err := h.SetConsent(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusConflict {
		t.Errorf("expected 409 for inactive project, got %v", err)
	}
}

func TestHandler_Export_EmptyHeaderOnly(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(adminCtx("admin-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Export(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := strings.TrimSpace(rec.Body.String())
	if body != "Project,Patient Email,Consent Status,Consent Date,Withdrawal Date,GDPR Compliant" {
		t.Errorf("expected header-only CSV, got %q", body)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv content type, got %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "attachment") {
		t.Errorf("expected attachment disposition, got %q", cd)
	}
}

func TestHandler_Summary(t *testing.T) {
	f := newFixture()
	proj := f.addProject(project.StatusActive)
	f.svc.SetConsent(patientCtx("patient-1"), proj.ID, true)
	h := NewHandler(f.svc)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(adminCtx("admin-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Summary(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"consented":1`) {
		t.Errorf("expected summary payload, got %s", rec.Body.String())
	}
}

func TestHandler_Statement_NoRecord(t *testing.T) {
	f := newFixture()
	proj := f.addProject(project.StatusActive)
	h := NewHandler(f.svc)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(patientCtx("patient-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(proj.ID.String())

	err := h.Statement(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a record, got %v", err)
	}
}

func TestHandler_Statement_PDF(t *testing.T) {
	f := newFixture()
	proj := f.addProject(project.StatusActive)
	f.profiles.data["patient-1"] = &profile.Profile{ID: "patient-1", Email: "p1@example.org"}
	f.svc.SetConsent(patientCtx("patient-1"), proj.ID, true)
	h := NewHandler(f.svc)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(patientCtx("patient-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(proj.ID.String())

	if err := h.Statement(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("expected PDF payload")
	}
}

func TestHandler_List_InvalidProjectFilter(t *testing.T) {
	f := newFixture()
	h := NewHandler(f.svc)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/?project_id=bogus", nil)
	req = req.WithContext(adminCtx("admin-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.List(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid project filter, got %v", err)
	}
}
