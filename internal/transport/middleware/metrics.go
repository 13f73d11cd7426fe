package middleware

import (
	"net/http"
	"time"

	"github.com/frahmantamala/asset-inventory/internal/metrics"
)

// Metrics records request duration and count. Numeric path segments are folded
// into {id} by the recorder.
func Metrics(skipPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			statusW := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(statusW, r)
			if r.URL.Path == skipPath {
				return
			}

			path := r.URL.Path
			if path == "" {
				path = "/"
			}
			metrics.RecordRequest(r.Method, path, statusW.status, time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
