package consent

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/consentd/consentd/internal/platform/auth"
	"github.com/consentd/consentd/internal/platform/report"
	"github.com/consentd/consentd/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.PUT("/projects/:id/consent", h.SetConsent)
	api.GET("/projects/:id/consent", h.GetConsent)
	api.GET("/projects/:id/consent/statement", h.Statement)
	api.GET("/consents", h.List)
	api.GET("/consents/export", h.Export)

	adminGroup := api.Group("", auth.RequireRole(auth.RoleAdmin))
	adminGroup.GET("/consents/summary", h.Summary)
}

// SetConsentRequest is the consent toggle payload. The flag is a pointer so
// an absent body is distinguishable from an explicit false.
type SetConsentRequest struct {
	ConsentGiven *bool `json:"consent_given" validate:"required"`
}

func (h *Handler) SetConsent(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid project id")
	}
	var req SetConsentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "consent_given is required")
	}

	rec, err := h.svc.SetConsent(c.Request().Context(), projectID, *req.ConsentGiven)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return echo.NewHTTPError(http.StatusNotFound, "project not found")
		case errors.Is(err, ErrNoConsentToWithdraw):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrProjectNotAccepting):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) GetConsent(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid project id")
	}
	rec, err := h.svc.Get(c.Request().Context(), projectID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "consent record not found")
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) List(c echo.Context) error {
	var projectID *uuid.UUID
	if q := c.QueryParam("project_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid project_id")
		}
		projectID = &id
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), projectID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Summary(c echo.Context) error {
	summaries, err := h.svc.Summary(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	return c.JSON(http.StatusOK, summaries)
}

func (h *Handler) Export(c echo.Context) error {
	records, err := h.svc.Export(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	filename := fmt.Sprintf("consent-export-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *Handler) Statement(c echo.Context) error {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid project id")
	}
	st, err := h.svc.Statement(c.Request().Context(), projectID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "consent record not found")
	}
	pdf, err := report.RenderConsentStatement(*st)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="consent-statement.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
