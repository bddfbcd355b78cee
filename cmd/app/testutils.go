package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/oluseyi-dev/chapterpress/internal/blogservice"
	"github.com/oluseyi-dev/chapterpress/internal/common"
	"github.com/oluseyi-dev/chapterpress/internal/userservice"
)

func newTestApplication(t *testing.T) *application {
	db := common.TestDB("file://../../migrations", t)

	mb, err := common.NewMessageBroker(common.TestRabbitMQ(t))
	require.NoError(t, err)
	t.Cleanup(func() { mb.Close() })

	err = common.SetupUserExchange(mb)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	metrics := common.NewMetrics(registry)

	cfg := &Config{
		Port:           "4000",
		Environment:    "test",
		Version:        "1.0.0",
		JWTSecret:      "test-secret-test-secret-test-secret",
		LimiterEnabled: false,
	}

	cache := common.NewCache(common.DefaultCacheExpiration, common.DefaultCacheCleanup)
	tokens := userservice.NewTokenManager(cfg.JWTSecret)

	return &application{
		config:      cfg,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		userService: userservice.NewUserService(db, mb, tokens),
		blogService: blogservice.NewBlogService(db, cache, metrics),
		metrics:     metrics,
		gatherer:    registry,
	}
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func (ts *testServer) do(t *testing.T, method, urlPath, token string, body []byte) (int, []byte) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, ts.URL+urlPath, reader)
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rs, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer rs.Body.Close()

	respBody, err := io.ReadAll(rs.Body)
	require.NoError(t, err)

	return rs.StatusCode, respBody
}

func (ts *testServer) get(t *testing.T, urlPath, token string) (int, []byte) {
	return ts.do(t, http.MethodGet, urlPath, token, nil)
}

func (ts *testServer) post(t *testing.T, urlPath, token string, body []byte) (int, []byte) {
	return ts.do(t, http.MethodPost, urlPath, token, body)
}

func (ts *testServer) patch(t *testing.T, urlPath, token string, body []byte) (int, []byte) {
	return ts.do(t, http.MethodPatch, urlPath, token, body)
}

func (ts *testServer) delete(t *testing.T, urlPath, token string) (int, []byte) {
	return ts.do(t, http.MethodDelete, urlPath, token, nil)
}
