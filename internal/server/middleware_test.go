package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Error("request ID missing from context")
	}
	if header := rec.Header().Get("X-Request-ID"); header != seen {
		t.Errorf("X-Request-ID = %q, context id = %q", header, seen)
	}
}

func TestLoggingMiddlewareEmitsCustomFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		AddLogField(r.Context(), "database_id", "db-1")
		w.WriteHeader(http.StatusBadRequest)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/functions/create_item", nil))

	logs := buf.String()
	if !strings.Contains(logs, "request completed") {
		t.Fatalf("missing completion log: %s", logs)
	}
	if !strings.Contains(logs, `"database_id":"db-1"`) {
		t.Errorf("custom field not emitted: %s", logs)
	}
	if !strings.Contains(logs, `"status":400`) {
		t.Errorf("status code not captured: %s", logs)
	}
}

func TestAddLogFieldWithoutMiddleware(t *testing.T) {
	// Must not panic when the middleware never ran.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	AddLogField(req.Context(), "key", "value")
	AddError(req.Context(), nil)
}
