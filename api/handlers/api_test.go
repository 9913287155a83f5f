package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/lexmatch-api/api/handlers"
	"github.com/linesmerrill/lexmatch-api/config"
	"github.com/linesmerrill/lexmatch-api/intake"
	"github.com/linesmerrill/lexmatch-api/models"
	"github.com/linesmerrill/lexmatch-api/notify"
)

const cofounderIntake = "My cofounder left and wants 50%"

func testConfig() config.Config {
	return config.Config{
		GeminiModel:    intake.DefaultModel,
		AnalyzeTimeout: time.Second,
		TaskRetention:  time.Minute,
		RequestTimeout: 5 * time.Second,
		SessionSecret:  "test-secret",
		SessionTTL:     time.Hour,
	}
}

func newTestApp(t *testing.T, provider intake.Provider) (*handlers.App, *httptest.Server) {
	t.Helper()
	return newTestAppWithConfig(t, testConfig(), provider)
}

func newTestAppWithConfig(t *testing.T, conf config.Config, provider intake.Provider) (*handlers.App, *httptest.Server) {
	t.Helper()
	a := &handlers.App{Config: conf, Provider: provider, Notifier: notify.LogNotifier{}}
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, a.Initialize(ctx))

	srv := httptest.NewServer(a.Router)
	t.Cleanup(func() {
		srv.Close()
		a.Close()
		cancel()
	})
	return a, srv
}

func login(t *testing.T, srv *httptest.Server, role models.Role) string {
	t.Helper()
	res := doJSON(t, srv, "", http.MethodPost, "/api/v1/session", models.SessionRequest{Role: role})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var session models.SessionResponse
	decode(t, res, &session)
	require.NotEmpty(t, session.Token)
	return session.Token
}

func doJSON(t *testing.T, srv *httptest.Server, token, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func decode(t *testing.T, res *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(res.Body).Decode(v))
}

func errorBody(t *testing.T, res *http.Response) models.ErrorMessageResponse {
	t.Helper()
	var body models.ErrorMessageResponse
	decode(t, res, &body)
	return body
}

func TestHealthCheckHandler(t *testing.T) {
	_, srv := newTestApp(t, nil)

	res := doJSON(t, srv, "", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body models.HealthCheckResponse
	decode(t, res, &body)
	assert.True(t, body.Alive)
}

func TestSessionLifecycle(t *testing.T) {
	_, srv := newTestApp(t, nil)

	res := doJSON(t, srv, "", http.MethodGet, "/api/v1/me", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res = doJSON(t, srv, "", http.MethodPost, "/api/v1/session", models.SessionRequest{Role: "ADMIN"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	token := login(t, srv, models.RoleClient)
	res = doJSON(t, srv, token, http.MethodGet, "/api/v1/me", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var me models.User
	decode(t, res, &me)
	assert.Equal(t, "Alex Founder", me.Name)
	assert.Equal(t, models.RoleClient, me.Role)

	res = doJSON(t, srv, token, http.MethodPost, "/api/v1/session/switch", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var switched models.SessionResponse
	decode(t, res, &switched)
	assert.Equal(t, "Jessica Pearson", switched.User.Name)
	assert.Equal(t, models.RoleLawyer, switched.User.Role)

	res = doJSON(t, srv, token, http.MethodGet, "/api/v1/me", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "switching revokes the old token")

	res = doJSON(t, srv, switched.Token, http.MethodDelete, "/api/v1/session", nil)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	res = doJSON(t, srv, switched.Token, http.MethodGet, "/api/v1/me", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestMetricsHandler(t *testing.T) {
	_, srv := newTestApp(t, nil)
	token := login(t, srv, models.RoleClient)

	res := doJSON(t, srv, token, http.MethodPost, "/api/v1/intake/analyze", models.AnalyzeRequest{Description: cofounderIntake})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = doJSON(t, srv, token, http.MethodGet, "/api/v1/metrics", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var summary struct {
		TotalRequests int64            `json:"totalRequests"`
		Analyses      map[string]int64 `json:"analyses"`
	}
	decode(t, res, &summary)
	assert.GreaterOrEqual(t, summary.TotalRequests, int64(2))
	assert.Equal(t, int64(1), summary.Analyses[string(intake.FailureTransport)])
}
