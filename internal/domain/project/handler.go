package project

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/consentd/consentd/internal/platform/auth"
	"github.com/consentd/consentd/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/projects", h.List)
	api.GET("/projects/:id", h.Get)

	adminGroup := api.Group("", auth.RequireRole(auth.RoleAdmin))
	adminGroup.POST("/projects", h.Create)
	adminGroup.PUT("/projects/:id", h.Update)
}

// CreateRequest is the admin project-creation payload.
type CreateRequest struct {
	Title                 string   `json:"title" validate:"required,max=300"`
	Description           *string  `json:"description"`
	PrincipalInvestigator *string  `json:"principal_investigator"`
	Institution           *string  `json:"institution"`
	DataTypes             []string `json:"data_types"`
	Purpose               *string  `json:"purpose"`
	DurationMonths        *int     `json:"duration_months" validate:"omitempty,min=1"`
	Status                string   `json:"status" validate:"omitempty,oneof=active completed paused"`
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	proj := &Project{
		Title:                 req.Title,
		Description:           req.Description,
		PrincipalInvestigator: req.PrincipalInvestigator,
		Institution:           req.Institution,
		DataTypes:             req.DataTypes,
		Purpose:               req.Purpose,
		DurationMonths:        req.DurationMonths,
		Status:                req.Status,
	}
	if err := h.svc.Create(c.Request().Context(), proj); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, proj)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	proj, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "project not found")
	}
	return c.JSON(http.StatusOK, proj)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	proj := &Project{
		ID:                    id,
		Title:                 req.Title,
		Description:           req.Description,
		PrincipalInvestigator: req.PrincipalInvestigator,
		Institution:           req.Institution,
		DataTypes:             req.DataTypes,
		Purpose:               req.Purpose,
		DurationMonths:        req.DurationMonths,
		Status:                req.Status,
	}
	if err := h.svc.Update(c.Request().Context(), proj); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return echo.NewHTTPError(http.StatusNotFound, "project not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, proj)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), c.QueryParam("status"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
