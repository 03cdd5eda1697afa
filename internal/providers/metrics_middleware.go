package providers

import (
	"net/http"
	"strings"
	"time"
)

// siteEndpoint is the single metrics label for every static site path.
const siteEndpoint = "site"

// responseRecorder remembers the status and body size of a response.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *responseRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *responseRecorder) Write(p []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(p)
	rec.bytes += n
	return n, err
}

func (rec *responseRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// endpointLabel keeps label cardinality bounded: API paths are reported as
// is, anything else is folded into one label.
func endpointLabel(path string) string {
	if path == "/api" || strings.HasPrefix(path, "/api/") {
		return path
	}
	return siteEndpoint
}

// MetricsMiddleware records request counts and latency, and writes one
// access line to the read or write log depending on the method.
func MetricsMiddleware(metrics MetricsProviderInterface, logger Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		endpoint := endpointLabel(r.URL.Path)
		metrics.IncRequestsTotal(endpoint, rec.status)
		metrics.ObserveRequestDuration(endpoint, duration)
		logger.Debugf(GetLogTypeByRequestType(r.Method), "%s %s %d %dB %s %s", r.Method, r.URL.Path, rec.status, rec.bytes, duration, r.RemoteAddr)
	})
}
