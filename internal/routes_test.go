package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"plantao/internal/controllers"
	"plantao/internal/providers"
	"plantao/internal/services"
	"plantao/internal/structures"
	"plantao/internal/testutil"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func testConfig(t *testing.T) *structures.Config {
	t.Helper()
	site := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(site, "index.html"), []byte("<html>plantao</html>"), 0o644))
	return &structures.Config{
		Site:        structures.Site{Dir: site},
		Persistence: structures.Persistence{DataDir: filepath.Join(site, "data"), FileName: "plantao.json"},
		Cors:        structures.CorsConfig{AllowOrigin: "*"},
	}
}

func newTestHandler(t *testing.T, conf *structures.Config) http.Handler {
	t.Helper()
	logger := &testutil.MockLogger{}
	metrics := providers.NewMetricsProvider(conf, nil)
	cache := providers.NewCacheProvider(conf, logger)
	records := providers.NewRecordStoreProvider(conf, providers.NewNormalizerProvider(conf), logger)
	svc := services.NewPlantaoService(records, logger, metrics)

	site, err := controllers.NewSiteController(conf, logger)
	require.NoError(t, err)
	router := InitRoutes(
		controllers.NewApiController(logger, svc, cache),
		controllers.NewHealthController(svc),
		providers.NewRateLimiter(conf, logger),
		metrics,
	)
	return NewHandler(router, site, conf, logger, metrics)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

// --- route table ---

func TestInitRoutes_RegistersApiRoutes(t *testing.T) {
	router := InitRoutes(
		controllers.NewApiController(&testutil.MockLogger{}, &testutil.MockPlantaoService{}, testutil.NewMockCache()),
		controllers.NewHealthController(&testutil.MockPlantaoService{}),
		providers.NewRateLimiter(&structures.Config{}, &testutil.MockLogger{}),
		testutil.NewMockMetrics(),
	)
	routes := router.GetRoutes()

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}
	assert.Equal(t, []string{"/api/health", "/api/plantao", "/api/plantao/replace", "/api/plantao/reset"}, urls)
}

func TestHandler_MethodEnforcement(t *testing.T) {
	h := newTestHandler(t, testConfig(t))

	assert.Equal(t, http.StatusMethodNotAllowed, do(h, http.MethodPost, "/api/plantao", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(h, http.MethodGet, "/api/plantao/reset", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(h, http.MethodDelete, "/api/health", "").Code)
}

// --- end to end ---

func TestHandler_Health(t *testing.T) {
	h := newTestHandler(t, testConfig(t))

	rr := do(h, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decode(t, rr)["ok"])
}

func TestHandler_FirstGetIsDefault(t *testing.T) {
	conf := testConfig(t)
	h := newTestHandler(t, conf)

	rr := do(h, http.MethodGet, "/api/plantao", "")

	require.Equal(t, http.StatusOK, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, []any{}, body["collaborators"])
	assert.Nil(t, body["updatedAt"])
	contact := body["supportContact"].(map[string]any)
	assert.Equal(t, "PEDRO", contact["name"])
	assert.NoFileExists(t, filepath.Join(conf.Persistence.DataDir, "plantao.json"))
	assert.DirExists(t, conf.Persistence.DataDir)
}

func TestHandler_PutThenGet(t *testing.T) {
	conf := testConfig(t)
	h := newTestHandler(t, conf)

	put := do(h, http.MethodPut, "/api/plantao", `{"collaborators":[{"id":"c1","name":"Ana"}],"schedule":{"month":3,"year":2026,"dayOwnerIds":{"1":"c1"}},"theme":"dark"}`)
	require.Equal(t, http.StatusOK, put.Code)
	written := decode(t, put)
	assert.NotNil(t, written["updatedAt"])

	get := do(h, http.MethodGet, "/api/plantao", "")
	require.Equal(t, http.StatusOK, get.Code)
	assert.JSONEq(t, put.Body.String(), get.Body.String())
	assert.Equal(t, "dark", decode(t, get)["theme"])
	assert.FileExists(t, filepath.Join(conf.Persistence.DataDir, "plantao.json"))
}

func TestHandler_ReplaceAndReset(t *testing.T) {
	h := newTestHandler(t, testConfig(t))

	rep := do(h, http.MethodPost, "/api/plantao/replace", `{"collaborators":["x","y"]}`)
	require.Equal(t, http.StatusOK, rep.Code)
	assert.Len(t, decode(t, rep)["collaborators"], 2)

	reset := do(h, http.MethodPost, "/api/plantao/reset", "")
	require.Equal(t, http.StatusOK, reset.Code)
	assert.Equal(t, []any{}, decode(t, reset)["collaborators"])
	assert.NotNil(t, decode(t, reset)["updatedAt"])

	get := do(h, http.MethodGet, "/api/plantao", "")
	assert.Equal(t, []any{}, decode(t, get)["collaborators"])
}

func TestHandler_BadBodies(t *testing.T) {
	h := newTestHandler(t, testConfig(t))

	req := httptest.NewRequest(http.MethodPut, "/api/plantao", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "body must be JSON", decode(t, rr)["error"])

	rr = do(h, http.MethodPut, "/api/plantao", `{"broken"`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid JSON", decode(t, rr)["error"])

	rr = do(h, http.MethodPost, "/api/plantao/replace", `null`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_CorruptFileServesWarning(t *testing.T) {
	conf := testConfig(t)
	h := newTestHandler(t, conf)
	require.NoError(t, os.MkdirAll(conf.Persistence.DataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(conf.Persistence.DataDir, "plantao.json"), []byte("{nope"), 0o644))

	rr := do(h, http.MethodGet, "/api/plantao", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, decode(t, rr)["warning"])

	health := decode(t, do(h, http.MethodGet, "/api/health", ""))
	assert.Equal(t, float64(1), health["stats"].(map[string]any)["corrupt_reads"])
}

func TestHandler_CorsOnEveryResponse(t *testing.T) {
	h := newTestHandler(t, testConfig(t))

	for _, target := range []string{"/api/health", "/api/plantao", "/", "/missing"} {
		rr := do(h, http.MethodGet, target, "")
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"), target)
		assert.Equal(t, "GET, PUT, POST, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"), target)
		assert.Equal(t, "Content-Type, Authorization", rr.Header().Get("Access-Control-Allow-Headers"), target)
	}
}

func TestHandler_OptionsPreflight(t *testing.T) {
	h := newTestHandler(t, testConfig(t))

	for _, target := range []string{"/api/plantao", "/api/plantao/replace", "/api/plantao/reset"} {
		rr := do(h, http.MethodOptions, target, "")
		assert.Equal(t, http.StatusNoContent, rr.Code, target)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"), target)
	}
}

func TestHandler_SiteAndApiBoundary(t *testing.T) {
	h := newTestHandler(t, testConfig(t))

	root := do(h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, root.Code)
	assert.Equal(t, "<html>plantao</html>", root.Body.String())

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/unknown", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/plantao/", "").Code)
	assert.Equal(t, http.StatusNoContent, do(h, http.MethodGet, "/favicon.ico", "").Code)
}

func TestHandler_MetricsEndpointOnlyWhenEnabled(t *testing.T) {
	h := newTestHandler(t, testConfig(t))

	rr := do(h, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_GzipWhenAccepted(t *testing.T) {
	h := newTestHandler(t, testConfig(t))
	names := make([]string, 200)
	for i := range names {
		names[i] = `"collaborator-name"`
	}
	require.Equal(t, http.StatusOK, do(h, http.MethodPut, "/api/plantao", `{"collaborators":[`+strings.Join(names, ",")+`]}`).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/plantao", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
}

func TestHandler_WriteRateLimit(t *testing.T) {
	conf := testConfig(t)
	conf.RateLimit = structures.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Hour, Burst: 2}
	h := newTestHandler(t, conf)

	assert.Equal(t, http.StatusOK, do(h, http.MethodPut, "/api/plantao", `{}`).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodPut, "/api/plantao", `{}`).Code)
	limited := do(h, http.MethodPut, "/api/plantao", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	// reads are never limited
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/plantao", "").Code)
}

func TestHandler_ConcurrentWritesLeaveValidFile(t *testing.T) {
	conf := testConfig(t)
	h := newTestHandler(t, conf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			do(h, http.MethodPut, "/api/plantao", `{"collaborators":["a"]}`)
			do(h, http.MethodGet, "/api/plantao", "")
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(conf.Persistence.DataDir, "plantao.json"))
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, []any{"a"}, rec["collaborators"])
}
