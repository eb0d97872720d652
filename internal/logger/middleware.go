package logger

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDMiddleware propagates an inbound X-Request-ID, minting one when
// absent, and echoes it on the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), reqID)))
	})
}

type responseInfo struct {
	http.ResponseWriter
	status int
}

func (w *responseInfo) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs every request with its status and latency. Server
// errors are logged at error level so they surface in alerting.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ri := &responseInfo{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ri, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ri.status),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		}

		log := FromCtx(r.Context())
		if ri.status >= http.StatusInternalServerError {
			log.Error("request failed", fields...)
			return
		}
		log.Info("request handled", fields...)
	})
}
