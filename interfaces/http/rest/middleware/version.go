package middleware

import "net/http"

// APIVersion is the current REST API version
const APIVersion = "v1"

// Version adds API version headers to all responses
func Version(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", APIVersion)
		w.Header().Set("X-API-Latest", APIVersion)
		next.ServeHTTP(w, r)
	})
}
