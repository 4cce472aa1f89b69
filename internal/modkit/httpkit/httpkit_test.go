package httpkit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"trendlens/internal/modkit/httpkit"
	perr "trendlens/internal/platform/errors"
	phttp "trendlens/internal/platform/net/http"
)

type echoReq struct {
	Name string `json:"name"`
}

func serve(t *testing.T, mux http.Handler, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestMountAPIV1_StackAndSugar(t *testing.T) {
	t.Parallel()
	mux := chi.NewRouter()
	var observed []string
	stack := httpkit.CommonStack(httpkit.StackOptions{
		Timeout: time.Second,
		Observe: func(method, route string, status int, _ time.Duration) {
			observed = append(observed, method+" "+route)
		},
	})
	httpkit.MountAPIV1(phttp.AdaptChi(mux), stack, func(api httpkit.Router) {
		httpkit.MountUnder(api, "/echo", nil, func(r httpkit.Router) {
			httpkit.PostJSON(r, "/", func(_ *http.Request, in echoReq) (any, error) {
				return map[string]string{"hello": in.Name}, nil
			})
			httpkit.GetJSON(r, "/fail", func(*http.Request) (any, error) {
				return nil, perr.NotFoundf("nope")
			})
		})
	})

	rec := serve(t, mux, http.MethodPost, "/api/v1/echo/", `{"name":"dubai"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id not echoed")
	}
	var env httpkit.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.RequestID == "" {
		t.Fatalf("envelope missing request id")
	}

	rec = serve(t, mux, http.MethodGet, "/api/v1/echo/fail", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
	if len(observed) != 2 || observed[0] != "POST /api/v1/echo/" {
		t.Fatalf("observed %v", observed)
	}
}

func TestProtected_APIKey(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		key    string
		hdr    map[string]string
		status int
	}{
		{"open when key blank", "", nil, http.StatusOK},
		{"missing key", "s3cret", nil, http.StatusUnauthorized},
		{"header key", "s3cret", map[string]string{"X-API-Key": "s3cret"}, http.StatusOK},
		{"bearer key", "s3cret", map[string]string{"Authorization": "Bearer s3cret"}, http.StatusOK},
		{"wrong key", "s3cret", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mux := chi.NewRouter()
			r := phttp.AdaptChi(mux)
			httpkit.Protected(r, tc.key, func(pr httpkit.Router) {
				httpkit.PostAction(pr, "/reload", func(*http.Request) (any, error) {
					return httpkit.Accepted(map[string]bool{"purged": true}), nil
				})
			})
			httpkit.GetJSON(r, "/open", func(*http.Request) (any, error) { return "ok", nil })

			rec := serve(t, mux, http.MethodPost, "/reload", "", tc.hdr)
			want := tc.status
			if want == http.StatusOK {
				want = http.StatusAccepted
			}
			if rec.Code != want {
				t.Fatalf("status %d want %d", rec.Code, want)
			}
			if rec := serve(t, mux, http.MethodGet, "/open", "", nil); rec.Code != http.StatusOK {
				t.Fatalf("open route status %d", rec.Code)
			}
		})
	}
}

func TestCall_PassesResponseThrough(t *testing.T) {
	t.Parallel()
	h := httpkit.Call(func(*http.Request) (any, error) { return httpkit.NoContent(), nil })
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestAPIPrefix(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]string{"v1": "/api/v1", "/v2/": "/api/v2"} {
		if got := httpkit.APIPrefix(in); got != want {
			t.Fatalf("%q -> %q", in, got)
		}
	}
}
