package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestLogger_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "rid-1")

	h := Logger(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	if entry["request_id"] != "rid-1" || entry["method"] != "GET" || entry["path"] != "/test" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["status"] != float64(http.StatusOK) || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestLogger_HandlesErrorBeforeLogging(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Logger(zerolog.New(&buf))(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})
	if err := h(c); err != nil {
		t.Fatalf("error should be handled, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log line: %v", err)
	}
	if entry["status"] != float64(http.StatusNotFound) || entry["level"] != "warn" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestMetrics_PassesThrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/doctors", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/doctors")

	h := Metrics()(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
