package web

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info("request",
				"request_id", uuid.New(),
				"method", r.Method,
				"path", r.URL.Path,
				"ip", clientAddr(r))
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr is the address recorded on the token at redemption. Behind the
// usual PaaS proxy the peer address is the proxy, so X-Forwarded-For wins
// when present.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
