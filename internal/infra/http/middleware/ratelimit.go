package middleware

import (
	"net"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/xavierca1/woo-crm/internal/infra/ratelimit"
)

// RateLimit answers 429 once key(r) has used up its quota for the window.
// Limiter errors let the request through.
func RateLimit(name string, limiter ratelimit.Limiter, key func(*http.Request) string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := limiter.Allow(r.Context(), key(r))
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.String("limiter", name), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				RecordRateLimited(name)
				w.Header().Set("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
				deny(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the request's remote host without the port. Run behind
// chi's RealIP middleware so proxies are honoured.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ByUserOrIP keys admin limits by token subject, falling back to the IP.
func ByUserOrIP(r *http.Request) string {
	if c, ok := ClaimsFrom(r.Context()); ok && c.Subject != "" {
		return "user:" + c.Subject
	}
	return "ip:" + ClientIP(r)
}
