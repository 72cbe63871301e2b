package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aoideee/watchlog/internal/data"
	"github.com/aoideee/watchlog/internal/movies"
	"github.com/aoideee/watchlog/internal/views"
)

// newTestApplication wires the application against a fresh SQLite file.
func newTestApplication(t *testing.T, profile data.Profile) *applicationDependencies {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := data.OpenDB(context.Background(), data.DBConfig{
		Driver: data.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "movies.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	renderer, err := views.New()
	require.NoError(t, err)

	var cfg serverConfig
	cfg.environment = "development"
	cfg.profile = string(profile)

	return &applicationDependencies{
		config: cfg,
		logger: logger,
		movies: movies.NewService(data.NewModels(db).Movies, profile),
		views:  renderer,
	}
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	// Do not follow redirects so form responses can be asserted directly.
	ts.Client().CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &testServer{ts}
}

func (ts *testServer) do(t *testing.T, method, path, body string) (int, http.Header, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return ts.send(t, req)
}

func (ts *testServer) postForm(t *testing.T, path string, form url.Values) (int, http.Header, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return ts.send(t, req)
}

func (ts *testServer) send(t *testing.T, req *http.Request) (int, http.Header, []byte) {
	t.Helper()

	rs, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer rs.Body.Close()

	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)

	return rs.StatusCode, rs.Header, bytes.TrimSpace(body)
}

func decodeJSON[T any](t *testing.T, body []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(body, &v), "body: %s", body)
	return v
}
