package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	perr "trendlens/internal/platform/errors"
	pnet "trendlens/internal/platform/net"
	"trendlens/internal/platform/net/middleware"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestRequestID_PropagatesAndStamps(t *testing.T) {
	t.Parallel()
	var gotReq, gotSession string
	h := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq, gotSession = pnet.RequestID(r.Context()), pnet.SessionID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-1")
	req.Header.Set(middleware.SessionHeader, "sess-9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if gotReq != "abc-1" || gotSession != "sess-9" {
		t.Fatalf("ctx ids = %q %q", gotReq, gotSession)
	}
	if rec.Header().Get("X-Request-ID") != "abc-1" {
		t.Fatalf("response header %q", rec.Header().Get("X-Request-ID"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if gotReq == "" || rec.Header().Get("X-Request-ID") != gotReq {
		t.Fatalf("generated id %q not echoed", gotReq)
	}
}

func TestRecoverJSON(t *testing.T) {
	t.Parallel()
	h := middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("classifier exploded")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/trends/trajectory", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.Code)
	}
	var env pnet.Wire
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("body %q: %v", rec.Body.String(), err)
	}
	if env.Code != perr.ErrorCodePanic || env.Error != "panic recovered" {
		t.Fatalf("envelope %+v", env)
	}
}

func TestAccessLog_ObservesRoutePattern(t *testing.T) {
	t.Parallel()
	type sample struct {
		method, route string
		status        int
	}
	var (
		mu   sync.Mutex
		seen []sample
	)
	observe := func(method, route string, status int, _ time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, sample{method, route, status})
	}

	r := chi.NewRouter()
	r.Use(middleware.AccessLog(middleware.AccessLogOptions{Slow: time.Nanosecond, Observe: observe}))
	r.Post("/content/{source}/overview", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/content/brand/overview", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	want := []sample{
		{http.MethodPost, "/content/{source}/overview", http.StatusAccepted},
		{http.MethodGet, "unmatched", http.StatusNotFound},
	}
	if len(seen) != len(want) {
		t.Fatalf("samples %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("sample %d = %+v want %+v", i, seen[i], want[i])
		}
	}
}

func TestAPIKey(t *testing.T) {
	t.Parallel()
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	cases := []struct {
		name, key, header, value string
		status                   int
	}{
		{"disabled", "", "", "", http.StatusNoContent},
		{"header", "s3cret", middleware.APIKeyHeader, "s3cret", http.StatusNoContent},
		{"bearer", "s3cret", "Authorization", "Bearer s3cret", http.StatusNoContent},
		{"wrong", "s3cret", middleware.APIKeyHeader, "nope", http.StatusUnauthorized},
		{"missing", "s3cret", "", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/sources/reload", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			rec := httptest.NewRecorder()
			middleware.APIKey(tc.key, writeJSON)(ok).ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status %d want %d", rec.Code, tc.status)
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()
	h := middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"https://dash.example"}})(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}),
	)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chat", nil)
	req.Header.Set("Origin", "https://dash.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-Session-ID")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example" {
		t.Fatalf("allow origin %q", got)
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	if n := len(middleware.Defaults(time.Minute)); n != 6 {
		t.Fatalf("defaults len %d", n)
	}
}
