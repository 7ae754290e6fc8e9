package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func run(t *testing.T, mw echo.MiddlewareFunc, handler echo.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, mw(handler)(c)
}

func TestRequestID_GeneratesNew(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, err := run(t, RequestID(), func(c echo.Context) error {
		if rid, _ := c.Get("request_id").(string); rid == "" {
			t.Error("expected request_id in context")
		}
		return c.String(http.StatusOK, "ok")
	}, req)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec, err := run(t, RequestID(), func(c echo.Context) error {
		if rid, _ := c.Get("request_id").(string); rid != "my-custom-id" {
			t.Errorf("expected my-custom-id, got %s", rid)
		}
		return c.String(http.StatusOK, "ok")
	}, req)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get(RequestIDHeader); got != "my-custom-id" {
		t.Errorf("expected my-custom-id in response header, got %s", got)
	}
}

func TestLogger_LogsRequest(t *testing.T) {
	logger := zerolog.New(io.Discard)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	_, err := run(t, Logger(logger), func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, req)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecovery_CatchesPanic(t *testing.T) {
	logger := zerolog.New(io.Discard)
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	_, err := run(t, Recovery(logger), func(c echo.Context) error {
		panic("test panic")
	}, req)

	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", httpErr.Code)
	}
}

func TestRecovery_PassesThrough(t *testing.T) {
	logger := zerolog.New(io.Discard)
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	_, err := run(t, Recovery(logger), func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, req)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
