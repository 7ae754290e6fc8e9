package queue

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/queue", h.Enqueue)
	api.POST("/queue/call-next", h.CallNext)
	api.GET("/queue", h.List)
	api.GET("/queue/stats", h.Stats)
	api.GET("/queue/:patientId", h.Get)
	api.GET("/queue/:patientId/position", h.Position)
	api.PATCH("/queue/:patientId/stage", h.AdvanceStage)
	api.PATCH("/queue/:patientId/doctor", h.AssignDoctor)
	api.DELETE("/queue/:patientId", h.Remove)
}

func (h *Handler) Enqueue(c echo.Context) error {
	var body struct {
		PatientID   string   `json:"patient_id"`
		PatientName string   `json:"patient_name"`
		Priority    Priority `json:"priority"`
		Reason      string   `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entry, err := h.store.Enqueue(body.PatientID, body.PatientName, body.Priority, body.Reason)
	if err != nil {
		if errors.Is(err, ErrDuplicateEntry) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *Handler) CallNext(c echo.Context) error {
	entry, err := h.store.CallNext()
	if err != nil {
		if errors.Is(err, ErrQueueEmpty) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) List(c echo.Context) error {
	if stage := c.QueryParam("stage"); stage != "" {
		if !validStages[Stage(stage)] {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid stage")
		}
		return c.JSON(http.StatusOK, h.store.ListByStage(Stage(stage)))
	}
	return c.JSON(http.StatusOK, h.store.List())
}

func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Stats())
}

func (h *Handler) Get(c echo.Context) error {
	entry, err := h.store.Get(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) Position(c echo.Context) error {
	pos, waiting := h.store.Position(c.Param("patientId"))
	if !waiting {
		return c.JSON(http.StatusOK, map[string]interface{}{"waiting": false})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"waiting": true, "position": pos})
}

func (h *Handler) AdvanceStage(c echo.Context) error {
	var body struct {
		Stage Stage `json:"stage"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entry, err := h.store.AdvanceStage(c.Param("patientId"), body.Stage)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) AssignDoctor(c echo.Context) error {
	var body struct {
		DoctorID   string `json:"doctor_id"`
		DoctorName string `json:"doctor_name"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entry, err := h.store.AssignDoctor(c.Param("patientId"), body.DoctorID, body.DoctorName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) Remove(c echo.Context) error {
	h.store.Remove(c.Param("patientId"))
	return c.NoContent(http.StatusNoContent)
}
