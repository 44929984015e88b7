package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type echoRoutes struct{}

func (echoRoutes) Register(r *mux.Router) {
	r.HandleFunc("/v1/echo", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(RequestID(r.Context())))
	}).Methods(http.MethodGet)
}

func TestHealthz(t *testing.T) {
	h := New(zap.NewNop(), nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	h := New(zap.NewNop(), nil, echoRoutes{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/echo", nil))

	generated := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(generated); err != nil {
		t.Fatalf("expected generated uuid, got %q", generated)
	}
	if rec.Body.String() != generated {
		t.Fatalf("handler saw %q, header has %q", rec.Body.String(), generated)
	}

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/v1/echo", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) != incoming {
		t.Fatalf("expected incoming id to be kept, got %q", rec.Header().Get(RequestIDHeader))
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := New(zap.NewNop(), nil, echoRoutes{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/echo", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	h := New(zap.NewNop(), []string{"https://dashboard.example"}, echoRoutes{})

	req := httptest.NewRequest(http.MethodGet, "/v1/echo", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/echo", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestCORS_PreflightAllowsPut(t *testing.T) {
	h := New(zap.NewNop(), []string{"https://dashboard.example"}, echoRoutes{})

	req := httptest.NewRequest(http.MethodOptions, "/v1/echo", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPut) {
		t.Fatalf("expected PUT in allowed methods, got %q", got)
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := New(zap.New(core), nil, echoRoutes{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/echo", nil))

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one access log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/v1/echo" || fields["status"] != int64(http.StatusOK) {
		t.Fatalf("unexpected fields %v", fields)
	}
	if fields["request_id"] != rec.Header().Get(RequestIDHeader) {
		t.Fatalf("request id not logged: %v", fields)
	}
}
