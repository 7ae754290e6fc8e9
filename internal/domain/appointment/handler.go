package appointment

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicflow/clinicflow/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/appointments", h.Schedule)
	api.GET("/appointments", h.List)
	api.GET("/appointments/stats", h.Stats)
	api.GET("/appointments/:id", h.Get)
	api.POST("/appointments/check-in", h.CheckIn)
	api.POST("/appointments/:id/cancel", h.Cancel)
	api.POST("/appointments/:id/complete", h.Complete)
	api.GET("/patients/:patientId/appointments", h.ListByPatient)
	api.GET("/patients/:patientId/appointments/today", h.FindToday)
}

func (h *Handler) Schedule(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Schedule(c.Request().Context(), &a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	date := c.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	appts, total, err := h.svc.ListForDate(c.Request().Context(), date, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(appts, total, pg.Limit, pg.Offset))
}

func (h *Handler) Stats(c echo.Context) error {
	st, err := h.svc.StatsForDate(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	pg := pagination.FromContext(c)
	appts, total, err := h.svc.ListByPatient(c.Request().Context(), c.Param("patientId"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(appts, total, pg.Limit, pg.Offset))
}

func (h *Handler) FindToday(c echo.Context) error {
	a, err := h.svc.FindToday(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if a == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"appointment": nil})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"appointment": a})
}

func (h *Handler) CheckIn(c echo.Context) error {
	var body struct {
		PatientID string `json:"patient_id"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.CheckIn(c.Request().Context(), body.PatientID)
	if err != nil {
		if errors.Is(err, ErrNoAppointmentToday) {
			// Walk-in, not an error condition for the caller.
			return c.JSON(http.StatusOK, map[string]interface{}{"appointment": nil, "walk_in": true})
		}
		if errors.Is(err, ErrInvalidTransition) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"appointment": a, "walk_in": false})
}

func (h *Handler) Cancel(c echo.Context) error {
	return h.terminal(c, h.svc.Cancel)
}

func (h *Handler) Complete(c echo.Context) error {
	return h.terminal(c, h.svc.Complete)
}

func (h *Handler) terminal(c echo.Context, op func(ctx context.Context, id uuid.UUID) (*Appointment, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := op(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		case errors.Is(err, ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}
