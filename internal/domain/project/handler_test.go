package project

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/consentd/consentd/internal/platform/auth"
	"github.com/consentd/consentd/internal/platform/validation"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	return e
}

func TestHandler_Create(t *testing.T) {
	svc, repo := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	body := `{"title":"Diabetes FL Study","principal_investigator":"Dr. Reyes","duration_months":24}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(roleCtx("a1", auth.RoleAdmin))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"active"`) {
		t.Errorf("expected default active status, got %s", rec.Body.String())
	}
	if len(repo.data) != 1 {
		t.Errorf("expected 1 stored project, got %d", len(repo.data))
	}
}

func TestHandler_Create_MissingTitle(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(roleCtx("a1", auth.RoleAdmin))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Create_BadStatus(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	body := `{"title":"T","status":"archived"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req = req.WithContext(roleCtx("a1", auth.RoleAdmin))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Get_HiddenFromPatient(t *testing.T) {
	svc, repo := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	p := &Project{Title: "Paused", Status: StatusPaused}
	repo.Create(nil, p)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/"+p.ID.String(), nil)
	req = req.WithContext(roleCtx("p1", auth.RolePatient))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404 for patient, got %v", err)
	}
}

func TestHandler_Get_InvalidID(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/not-a-uuid", nil)
	req = req.WithContext(roleCtx("p1", auth.RolePatient))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.Get(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_List(t *testing.T) {
	svc, repo := newTestService()
	h := NewHandler(svc)
	e := newTestEcho()

	repo.Create(nil, &Project{Title: "A", Status: StatusActive})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req = req.WithContext(roleCtx("p1", auth.RolePatient))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Errorf("expected total 1, got %s", rec.Body.String())
	}
}
