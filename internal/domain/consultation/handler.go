package consultation

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicflow/clinicflow/internal/domain/queue"
	"github.com/clinicflow/clinicflow/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/doctors/:doctorId/consultations", h.ListForDoctor)
	api.GET("/doctors/:doctorId/consultations/records", h.RecordsByDoctor)
	api.POST("/consultations/:patientId/start", h.Start)
	api.POST("/consultations/:patientId/complete", h.Complete)
	api.GET("/patients/:patientId/consultations", h.RecordsByPatient)
}

func (h *Handler) ListForDoctor(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.ListForDoctor(c.Param("doctorId")))
}

func (h *Handler) Start(c echo.Context) error {
	entry, err := h.svc.Start(c.Param("patientId"))
	if err != nil {
		if errors.Is(err, queue.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) Complete(c echo.Context) error {
	var body struct {
		Notes     string `json:"notes"`
		Diagnosis string `json:"diagnosis"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entry, err := h.svc.Complete(c.Request().Context(), c.Param("patientId"), body.Notes, body.Diagnosis)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingClinicalInput):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, queue.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, queue.ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) RecordsByPatient(c echo.Context) error {
	pg := pagination.FromContext(c)
	recs, total, err := h.svc.RecordsByPatient(c.Request().Context(), c.Param("patientId"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(recs, total, pg.Limit, pg.Offset))
}

func (h *Handler) RecordsByDoctor(c echo.Context) error {
	pg := pagination.FromContext(c)
	recs, total, err := h.svc.RecordsByDoctor(c.Request().Context(), c.Param("doctorId"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(recs, total, pg.Limit, pg.Offset))
}
