package middleware

import (
	"net"
	"net/http"
	"strconv"

	"supramolecular/pkg/auth"
	pkgerrors "supramolecular/pkg/errors"
)

// RateLimit rejects clients that exceed their per-IP budget. It expects
// RealIP to have run first.
func RateLimit(limiter *auth.IPRateLimiter, errs *pkgerrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				rps, burst := limiter.Limit()
				if rps > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(1/rps)+1))
				}
				errs.Handle(w, r, pkgerrors.NewRateLimitError(rps, burst))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
