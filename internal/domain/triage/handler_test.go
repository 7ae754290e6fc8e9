package triage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/clinicflow/clinicflow/internal/domain/queue"
)

func TestHandlerComplete_UnregisteredPatient(t *testing.T) {
	f := newFixture()
	if _, err := f.queue.Enqueue("P1", "P1", queue.PriorityNormal, "checkup"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := f.svc.Open(context.Background(), "P1"); err != nil {
		t.Fatalf("open: %v", err)
	}
	fillRequired(t, f.svc, "P1")
	h := NewHandler(f.svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/triage/P1/complete", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("patientId")
	c.SetParamValues("P1")

	err := h.Complete(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTP error, got %v", err)
	}
	if he.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", he.Code, http.StatusNotFound)
	}
}
