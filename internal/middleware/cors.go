package middleware

import "net/http"

// CORS allows browser clients on the configured origins to call the API with
// credentials. "*" in the list allows any origin, without credentials.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allow := make(map[string]struct{}, len(allowedOrigins))
	allowAny := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAny = true
			continue
		}
		allow[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" {
				if _, ok := allow[origin]; ok {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Vary", "Origin")
					h.Set("Access-Control-Allow-Credentials", "true")
					setSharedCORSHeaders(h)
				} else if allowAny {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", "*")
					setSharedCORSHeaders(h)
				}
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func setSharedCORSHeaders(h http.Header) {
	h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Locale")
	h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	h.Set("Access-Control-Max-Age", "600")
}
