package module_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendlens/internal/adapters/relay"
	"trendlens/internal/modkit"
	"trendlens/internal/platform/config"
	phttp "trendlens/internal/platform/net/http"
	"trendlens/internal/services/api/chat/domain"
	chat "trendlens/internal/services/api/chat/module"
)

const relayURL = "http://relay.test/chat"

func setup(t *testing.T, env map[string]string, responder httpmock.Responder) (http.Handler, *httpmock.MockTransport) {
	t.Helper()
	mt := httpmock.NewMockTransport()
	mt.RegisterResponder(http.MethodPost, relayURL, responder)
	client := relay.NewClient(relay.Options{URL: relayURL, MaxRetries: -1, HTTPClient: &http.Client{Transport: mt}})

	m := chat.New(modkit.Deps{Cfg: config.FromMap(env)}, modkit.WithPorts(client))
	r := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(r))
	return r, mt
}

func post(h http.Handler, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestChat_Answer(t *testing.T) {
	t.Parallel()
	var sent map[string]string
	h, mt := setup(t, nil, func(req *http.Request) (*http.Response, error) {
		_ = json.NewDecoder(req.Body).Decode(&sent)
		return httpmock.NewJsonResponse(http.StatusOK, map[string]string{
			"message": "Villas lead growth",
			"image":   "data:image/png;base64,iVBORw0KGgo=",
		})
	})

	rec := post(h, `{"message":"what grows?","dataset":"brand"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]string{"message": "what grows?", "data": "instagram"}, sent)
	assert.Equal(t, 1, mt.GetTotalCallCount())

	var env struct {
		Data domain.Reply `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Villas lead growth", env.Data.Message)
	require.NotNil(t, env.Data.Image)
	assert.Equal(t, "image/png", env.Data.Image.MIME)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", env.Data.Image.DataURL)
	assert.Nil(t, env.Data.Document)
	assert.NotEmpty(t, env.Data.SessionID)
	assert.Equal(t, env.Data.SessionID, rec.Header().Get(domain.SessionHeader))
}

func TestChat_SessionFromHeader(t *testing.T) {
	t.Parallel()
	h, _ := setup(t, nil, httpmock.NewStringResponder(http.StatusOK, `{"message":"ok"}`))
	const sid = "6f1c7a52-8f0e-4c9b-9d3e-1f2a3b4c5d6e"

	rec := post(h, `{"message":"hi","dataset":"search"}`, map[string]string{domain.SessionHeader: sid})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, sid, rec.Header().Get(domain.SessionHeader))
}

func TestChat_Errors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		env       map[string]string
		responder httpmock.Responder
		body      string
		hdr       map[string]string
		status    int
	}{
		{"missing message", nil, httpmock.NewStringResponder(200, `{}`), `{"dataset":"brand"}`, nil, http.StatusBadRequest},
		{"unknown dataset", nil, httpmock.NewStringResponder(200, `{}`), `{"message":"x","dataset":"tv"}`, nil, http.StatusBadRequest},
		{"bad session", nil, httpmock.NewStringResponder(200, `{}`), `{"message":"x","dataset":"brand","session_id":"nope"}`, nil, http.StatusBadRequest},
		{"relay down", nil, httpmock.NewStringResponder(500, `boom`), `{"message":"x","dataset":"brand"}`, nil, http.StatusServiceUnavailable},
		{"relay garbage", nil, httpmock.NewStringResponder(200, `<html>`), `{"message":"x","dataset":"brand"}`, nil, http.StatusBadGateway},
		{"key required", map[string]string{"API_KEY": "k"}, httpmock.NewStringResponder(200, `{}`), `{"message":"x","dataset":"brand"}`, nil, http.StatusUnauthorized},
		{"key given", map[string]string{"API_KEY": "k"}, httpmock.NewStringResponder(200, `{"message":"y"}`), `{"message":"x","dataset":"brand"}`, map[string]string{"X-API-Key": "k"}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h, _ := setup(t, tc.env, tc.responder)
			rec := post(h, tc.body, tc.hdr)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestChat_NotConfigured(t *testing.T) {
	t.Parallel()
	m := chat.New(modkit.Deps{Cfg: config.FromMap(nil)})
	r := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(r))

	rec := post(r, `{"message":"x","dataset":"consumer"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
