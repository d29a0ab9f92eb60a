package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// AccessLog writes one structured line per request.
func AccessLog(log *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			fields := logrus.Fields{
				"method":    r.Method,
				"path":      r.URL.Path,
				"status":    ww.Status(),
				"bytes":     ww.BytesWritten(),
				"latency":   time.Since(start).String(),
				"userAgent": r.Header.Get("User-Agent"),
			}
			if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
				fields["traceId"] = sc.TraceID().String()
			}
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				fields["requestId"] = reqID
			}

			entry := log.WithFields(fields)
			if ww.Status() >= http.StatusInternalServerError {
				entry.Error("request")
				return
			}
			entry.Info("request")
		})
	}
}
