package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/conorfennell/studyplan/internal/logging"
	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger stores a request-scoped logger in the context and logs
// each completed request with its status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := slog.Default().With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		r = r.WithContext(logging.NewContext(r.Context(), log))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		attrs := []any{
			"status", ww.Status(),
			"size", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case ww.Status() >= 500:
			log.Error("Request completed with server error", attrs...)
		case ww.Status() >= 400:
			log.Warn("Request completed with client error", attrs...)
		default:
			log.Info("Request completed", attrs...)
		}
	})
}
