package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alwanly/service-config-client/internal/models"
	authentication "github.com/Alwanly/service-config-client/pkg/auth"
	"github.com/Alwanly/service-config-client/pkg/database"
	"github.com/Alwanly/service-config-client/pkg/deps"
	"github.com/Alwanly/service-config-client/pkg/logger"
	"github.com/Alwanly/service-config-client/pkg/middleware"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.NewSQLiteDB("")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &models.ConfigurationDocument{}))

	log := logger.NewNop()
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(log),
	})

	mid := middleware.NewAuthMiddleware(middleware.SetBasicAuth(&authentication.BasicAuthTConfig{
		Username:      "service",
		Password:      "servicepass",
		AdminUsername: "admin",
		AdminPassword: "password",
	}))

	NewHandler(deps.App{
		Fiber:      app,
		Logger:     log,
		Database:   db,
		Middleware: mid,
	})

	return app
}

func adminAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:password"))
}

func setConfig(t *testing.T, app *fiber.App, document map[string]any) string {
	t.Helper()

	body, err := json.Marshal(map[string]any{"configuration": document})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/config", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", adminAuth())

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		ETag string `json:"etag"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.NotEmpty(t, parsed.ETag)
	return parsed.ETag
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetConfigWithoutDocument(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/config", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSetConfigRequiresAdminAuth(t *testing.T) {
	app := newTestApp(t)

	body := bytes.NewReader([]byte(`{"configuration":{"name":"svc"}}`))
	req := httptest.NewRequest(http.MethodPost, "/config", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSetConfigRejectsMissingConfiguration(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/config", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", adminAuth())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetThenGetConfig(t *testing.T) {
	app := newTestApp(t)

	etag := setConfig(t, app, map[string]any{"name": "svc", "port": float64(8080)})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/config", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, etag, resp.Header.Get("ETag"))

	var document map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&document))
	assert.Equal(t, "svc", document["name"])
	assert.Equal(t, float64(8080), document["port"])
}

func TestGetConfigNotModified(t *testing.T) {
	app := newTestApp(t)

	etag := setConfig(t, app, map[string]any{"name": "svc"})

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	req.Header.Set("If-None-Match", etag)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
}

func TestUpdateRotatesETag(t *testing.T) {
	app := newTestApp(t)

	first := setConfig(t, app, map[string]any{"rev": float64(1)})
	second := setConfig(t, app, map[string]any{"rev": float64(2)})
	require.NotEqual(t, first, second)

	// stale ETag no longer matches, full document comes back
	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	req.Header.Set("If-None-Match", first)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, second, resp.Header.Get("ETag"))

	var document map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&document))
	assert.Equal(t, float64(2), document["rev"])
}
