package triage

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicflow/clinicflow/internal/domain/patient"
	"github.com/clinicflow/clinicflow/internal/domain/queue"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/triage/drafts", h.Drafts)
	api.POST("/triage/:patientId/open", h.Open)
	api.PATCH("/triage/:patientId", h.Edit)
	api.POST("/triage/:patientId/complete", h.Complete)
	api.POST("/triage/:patientId/cancel", h.Cancel)
}

func (h *Handler) Open(c echo.Context) error {
	session, err := h.svc.Open(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		switch {
		case errors.Is(err, queue.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, queue.ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, session)
}

func (h *Handler) Edit(c echo.Context) error {
	var req EditRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	draft, err := h.svc.Edit(c.Request().Context(), c.Param("patientId"), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, draft)
}

func (h *Handler) Complete(c echo.Context) error {
	entry, err := h.svc.Complete(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		var incomplete *IncompleteTriageError
		switch {
		case errors.As(err, &incomplete):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]string{
				"error":         incomplete.Error(),
				"missing_field": incomplete.Field,
			})
		case errors.Is(err, ErrNoActiveTriage), errors.Is(err, queue.ErrNotFound), errors.Is(err, patient.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, queue.ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) Cancel(c echo.Context) error {
	entry, err := h.svc.Cancel(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		switch {
		case errors.Is(err, queue.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, queue.ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) Drafts(c echo.Context) error {
	drafts, err := h.svc.Drafts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, drafts)
}
