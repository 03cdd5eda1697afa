package internal

import (
	"net/http"
	"plantao/internal/controllers"
	"plantao/internal/providers"
	"plantao/internal/structures"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitRoutes(apiController *controllers.ApiController, healthController *controllers.HealthController, limiter providers.RateLimiterInterface, metrics providers.MetricsProviderInterface) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()
	limited := func(h http.HandlerFunc) http.Handler {
		return providers.RateLimitMiddleware(limiter, metrics, h)
	}

	routers.Get("/api/health", http.HandlerFunc(healthController.Health))
	routers.Get("/api/plantao", http.HandlerFunc(apiController.GetRecord))
	routers.Put("/api/plantao", limited(apiController.PutRecord))
	routers.Post("/api/plantao/replace", limited(apiController.ReplaceRecord))
	routers.Post("/api/plantao/reset", limited(apiController.ResetRecord))
	return routers
}

// NewHandler assembles the server handler: API routes, the optional
// /metrics endpoint and the static site as fallback, wrapped in metrics,
// CORS and gzip.
func NewHandler(router providers.RouterProviderInterface, site *controllers.SiteController, conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) http.Handler {
	mux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		mux.Handle(route.Url, route.Handler)
	}
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.HandleFunc("/", site.Serve)

	var handler http.Handler = providers.MetricsMiddleware(metrics, logger, mux)
	handler = providers.CorsMiddleware(conf.Cors.AllowOrigin, handler)
	return gzhttp.GzipHandler(handler)
}
