// SPDX-License-Identifier: MPL-2.0

package web

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"appsfeed/apps"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeAppsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apps.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestServeApps(t *testing.T) {
	path := writeAppsFile(t, `[{"id":"a1","name":"Sales"}]`)
	e := New(Config{File: path, Logger: testLogger()})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/apps.json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `[{"id":"a1","name":"Sales"}]`, rec.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "no-store, max-age=0", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestServeAppsRereadsFile(t *testing.T) {
	path := writeAppsFile(t, `["v1"]`)
	e := New(Config{File: path, Logger: testLogger()})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/apps.json", nil))
	assert.Equal(t, `["v1"]`, rec.Body.String())

	require.NoError(t, os.WriteFile(path, []byte(`["v2"]`), 0o644))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/apps.json", nil))
	assert.Equal(t, `["v2"]`, rec.Body.String())
}

func TestServeAppsMissingFile(t *testing.T) {
	e := New(Config{File: filepath.Join(t.TempDir(), "missing.json"), Logger: testLogger()})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/apps.json", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "apps file not found")
	assert.Equal(t, "no-store, max-age=0", rec.Header().Get("Cache-Control"))
}

func TestMetricsEndpoint(t *testing.T) {
	path := writeAppsFile(t, `[]`)
	e := New(Config{File: path, Logger: testLogger()})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/apps.json", nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "appsfeed_origin_requests_total")
	assert.Equal(t, "no-store, max-age=0", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "0", rec.Header().Get("Expires"))
}

func TestFetcherAgainstOrigin(t *testing.T) {
	path := writeAppsFile(t, `{"apps":[{"id":"a1","name":"Sales","type":"dashboard"}]}`)
	srv := httptest.NewServer(New(Config{File: path, Logger: testLogger()}))
	defer srv.Close()

	f := apps.NewFetcher(apps.Config{BaseURL: srv.URL, Logger: testLogger()})
	got, err := f.FetchApps(context.Background())
	require.NoError(t, err)

	list, err := apps.Narrow(got)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sales", list[0].Name)

	require.NoError(t, os.Remove(path))
	got, err = f.FetchApps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []any{}, got)
}
