package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/itstock/internal/inventory"
	"github.com/odyssey-erp/itstock/internal/platform/kv"
	_ "github.com/odyssey-erp/itstock/testing"
)

func testConfig() *Config {
	return &Config{
		AppEnv:             "test",
		LogFormat:          "json",
		StoreDriver:        kv.DriverMemory,
		StoreKeyPrefix:     "it-stock-",
		RateLimitPerMinute: 1000,
	}
}

func call(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	res := httptest.NewRecorder()
	h.ServeHTTP(res, req)
	return res
}

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if old, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { _ = os.Setenv(key, old) })
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetEnv(t, "STORE_DRIVER", "STORE_KEY_PREFIX", "APP_ADDR", "APP_ENV", "LOG_FORMAT", "RATE_LIMIT_PER_MINUTE")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, kv.DriverSQLite, cfg.StoreDriver)
	require.Equal(t, "it-stock-", cfg.StoreKeyPrefix)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	unsetEnv(t, "LOG_FORMAT", "RATE_LIMIT_PER_MINUTE")
	t.Setenv("STORE_DRIVER", "localstorage")
	_, err := LoadConfig()
	require.ErrorContains(t, err, "unknown store driver")

	t.Setenv("STORE_DRIVER", "redis")
	t.Setenv("LOG_FORMAT", "xml")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "unknown log format")
}

func TestInTestMode(t *testing.T) {
	RefreshTestMode()
	require.True(t, InTestMode())
}

func TestNewLoggerFormats(t *testing.T) {
	var buf strings.Builder
	logger := newLogger(&Config{LogFormat: "json", AppEnv: "production"}, &buf)
	logger.Debug("hidden")
	logger.Info("visible", "item_id", "a")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"service":"itstock"`)
	require.Contains(t, buf.String(), `"item_id":"a"`)
}

func TestContainerRoundTripThroughAPI(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	c, err := NewContainer(ctx, testConfig(), nil, backend)
	require.NoError(t, err)
	router := c.Router()

	res := call(t, router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "nosniff", res.Header().Get("X-Content-Type-Options"))

	res = call(t, router, http.MethodPost, "/api/items", `{"name":"Mouse","category":"Peripherals","quantity":10,"minThreshold":3}`)
	require.Equal(t, http.StatusCreated, res.Code)
	var item inventory.Item
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &item))

	res = call(t, router, http.MethodPost, "/api/items/"+item.ID+"/movements", `{"kind":"EXIT","quantity":8}`)
	require.Equal(t, http.StatusCreated, res.Code)
	res = call(t, router, http.MethodPost, "/api/items/"+item.ID+"/movements", `{"kind":"EXIT","quantity":5}`)
	require.Equal(t, http.StatusConflict, res.Code)

	res = call(t, router, http.MethodPost, "/api/categories", `{"name":"Cables"}`)
	require.Equal(t, http.StatusOK, res.Code)
	res = call(t, router, http.MethodPost, "/api/shopping-list/manual", `{"name":"Webcam","quantity":2}`)
	require.Equal(t, http.StatusCreated, res.Code)

	res = call(t, router, http.MethodPost, "/api/shopping-list/export", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "[ ] Mouse: 6 unit(s)\n[ ] Webcam: 2 unit(s)", res.Body.String())

	res = call(t, router, http.MethodPost, "/api/shopping-list/advice", "")
	require.Equal(t, http.StatusServiceUnavailable, res.Code)

	res = call(t, router, http.MethodGet, "/api/diagnostics", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"healthy":true`)

	res = call(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `itstock_movements_total{kind="EXIT"} 1`)
	require.Contains(t, res.Body.String(), `itstock_movement_rejections_total{reason="insufficient_stock"} 1`)

	reloaded, err := NewContainer(ctx, testConfig(), nil, backend)
	require.NoError(t, err)
	got, err := reloaded.Inventory.Item(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.Quantity)
	require.Len(t, reloaded.Inventory.Movements(ctx, inventory.MovementFilter{}), 2)
	require.True(t, reloaded.Categories.Contains(ctx, "Cables"))
	require.True(t, reloaded.Categories.Contains(ctx, "Hardware"))
	require.Len(t, reloaded.Procurement.ManualItems(ctx), 1)
	require.NoError(t, reloaded.Close())
}

func TestContainerStartsFromCorruptState(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(ctx, "it-stock-items", []byte(`{broken`)))
	require.NoError(t, backend.Set(ctx, "it-stock-categories", []byte(`["Only"]`)))

	c, err := NewContainer(ctx, testConfig(), nil, backend)
	require.NoError(t, err)
	require.Empty(t, c.Inventory.Items(ctx, inventory.ItemFilter{}))
	require.Equal(t, []string{"Only"}, c.Categories.List(ctx))
	require.Equal(t, 1, c.Store.Diagnostics().Total())
}
