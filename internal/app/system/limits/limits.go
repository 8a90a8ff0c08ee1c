// internal/app/system/limits/limits.go
package limits

import "net/http"

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize is the maximum size accepted for JSON request bodies.
	MaxJSONBodySize = 1 << 20 // 1 MB
)

// JSONBody caps request bodies at MaxJSONBodySize. Reads past the cap
// fail, which surfaces as a decode error in the handler.
func JSONBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)
		}
		next.ServeHTTP(w, r)
	})
}
