package server

import (
	"net"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tonquiz/miniapp/pkg/errors"
	"github.com/tonquiz/miniapp/pkg/logger"
)

// requestLogger logs every request with its status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// ipRateLimit rejects clients that exceed the per-address budget. The
// per-user budget is enforced in the handlers, after the telegram id is
// known.
func (h *Handler) ipRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !h.limiter.AllowIP(ip) {
			writeError(w, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
